// Package protocol defines the wire grammar shared by the deskband daemon
// and its controllers: the comma-delimited command tokens, the status
// tokens, and the Response builder.
//
// A request is one command line with no embedded newline; a reply is the
// status and every field each followed by the delimiter, terminated by a
// single newline. Fields are not escaped: a delimiter inside a stored text
// corrupts the framing of the reply that later carries it.
package protocol

import "strings"

// Delimiter separates tokens in both requests and replies.
const Delimiter = ","

// BufferSize is the transfer buffer of the control endpoint. A request is
// whatever arrives in one read; a reply goes out in one write.
const BufferSize = 8 * 1024

// TransportVersion is reported by GET TRANSPORT_VERSION.
const TransportVersion = "1"

// Status tokens. Controllers branch on these exact spellings.
const (
	StatusOK            = "OK"
	StatusBadCommand    = "BadCommand"
	StatusTargetInvalid = "TextInfoTargetInvalid"
	StatusMsgNotFound   = "MSG_NOT_FOUND"
)

// TargetUnset is the reply field of GET TEXTINFO_TARGET when no explicit
// target index is set.
const TargetUnset = "None"

// Request verbs.
const (
	VerbGet         = "GET"
	VerbSet         = "SET"
	VerbNew         = "NEW"
	VerbNewLegacy   = "NEW_TEXTINFO" // pre-redesign spelling of NEW
	VerbPaint       = "PAINT"
	VerbClear       = "CLEAR"
	VerbStop        = "STOP"
	VerbSendMessage = "SENDMESSAGE"
)

// GET/SET sub-keys.
const (
	KeyWidth            = "WIDTH"
	KeyHeight           = "HEIGHT"
	KeyTextSize         = "TEXTSIZE"
	KeyTextInfoCount    = "TEXTINFOCOUNT"
	KeyTextInfoTarget   = "TEXTINFO_TARGET"
	KeyRGB              = "RGB"
	KeyText             = "TEXT"
	KeyXY               = "XY"
	KeyTransportVersion = "TRANSPORT_VERSION"
	KeyWinMsg           = "WIN_MSG"
	KeyLoggingEnabled   = "LOGGING_ENABLED"
)

// Tokenize splits one request line into its tokens.
func Tokenize(line string) []string {
	return strings.Split(line, Delimiter)
}

// Response accumulates the status and ordered fields for one request. The
// initial status is BadCommand; adding a field flips it to OK unless a
// named status is set afterwards.
type Response struct {
	status string
	fields []string
}

// NewResponse returns a response that serializes as BadCommand until a
// field or status is applied.
func NewResponse() *Response {
	return &Response{status: StatusBadCommand}
}

// AddField appends one reply field. Producing any field implies success,
// so the status becomes OK as a side effect.
func (r *Response) AddField(field string) {
	r.fields = append(r.fields, field)
	r.status = StatusOK
}

// SetStatus overrides the status token. Used for the named error
// conditions.
func (r *Response) SetStatus(status string) {
	r.status = status
}

// SetOK marks success with no fields.
func (r *Response) SetOK() {
	r.status = StatusOK
}

// Status returns the current status token.
func (r *Response) Status() string {
	return r.status
}

// Fields returns the ordered reply fields.
func (r *Response) Fields() []string {
	return r.fields
}

// Serialize renders the reply record. Called exactly once per request.
func (r *Response) Serialize() string {
	var b strings.Builder
	b.WriteString(r.status)
	b.WriteString(Delimiter)
	for _, field := range r.fields {
		b.WriteString(field)
		b.WriteString(Delimiter)
	}
	b.WriteString("\n")
	return b.String()
}

// ParseReply splits a serialized reply back into its status and fields,
// dropping the empty token left by the trailing delimiter.
func ParseReply(line string) (status string, fields []string) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Delimiter)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}
