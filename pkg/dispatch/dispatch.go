// Package dispatch turns one raw request line into exactly one response.
// Parse failures, bad arguments, target misses and unknown verbs all come
// back as statuses; nothing escapes as an error or a panic.
package dispatch

import (
	"errors"
	"strconv"
	"strings"

	"github.com/csm10495/deskband/pkg/logging"
	"github.com/csm10495/deskband/pkg/protocol"
	"github.com/csm10495/deskband/pkg/store"
)

var (
	errProtocol = errors.New("malformed request")
	errArgument = errors.New("bad argument")
)

// Dispatcher routes protocol requests onto the shared state and the host
// collaborators. The daemon wires the callback fields at startup; a verb
// whose callback is nil reports BadCommand.
type Dispatcher struct {
	Store   *store.Store
	Actions *store.ActionRegistry

	// MeasureText returns the rendered size of text in surface cells.
	MeasureText func(text string) (width, height int)
	// SurfaceSize returns the current drawing surface dimensions.
	SurfaceSize func() (width, height int)
	// Invalidate requests an asynchronous repaint of the surface.
	Invalidate func()
	// PostMessage delivers a host message id to the message pump.
	PostMessage func(id uint32)
	// SetLogging toggles the process-wide protocol log.
	SetLogging func(enabled bool)
	// RequestStop sets the shared stop flag. The listener observes it
	// after the in-flight reply is written, so STOP's OK still reaches
	// the controller.
	RequestStop func()
}

// Dispatch handles one request line and always produces a response.
func (d *Dispatcher) Dispatch(line string) *protocol.Response {
	logging.Logf("Request: %s", line)
	resp := protocol.NewResponse()
	if err := d.handle(protocol.Tokenize(line), resp); err != nil {
		// Error replies carry a status and no fields, whatever the
		// handler managed to emit before failing.
		resp = protocol.NewResponse()
		switch {
		case errors.Is(err, store.ErrTargetInvalid):
			resp.SetStatus(protocol.StatusTargetInvalid)
		case errors.Is(err, store.ErrActionNotFound):
			resp.SetStatus(protocol.StatusMsgNotFound)
		default:
			resp.SetStatus(protocol.StatusBadCommand)
		}
	}
	logging.Logf("Response: %s", strings.TrimRight(resp.Serialize(), "\n"))
	return resp
}

func (d *Dispatcher) handle(tokens []string, resp *protocol.Response) error {
	if len(tokens) == 0 {
		return errProtocol
	}
	switch tokens[0] {
	case protocol.VerbGet:
		return d.handleGet(tokens, resp)
	case protocol.VerbSet:
		return d.handleSet(tokens, resp)
	case protocol.VerbNew, protocol.VerbNewLegacy:
		d.Store.AppendDefault()
		resp.SetOK()
	case protocol.VerbPaint:
		d.invalidate()
		resp.SetOK()
	case protocol.VerbClear:
		d.Store.Clear()
		d.invalidate()
		resp.SetOK()
	case protocol.VerbStop:
		if d.RequestStop != nil {
			d.RequestStop()
		}
		resp.SetOK()
	case protocol.VerbSendMessage:
		id, err := msgArg(tokens, 1)
		if err != nil {
			return err
		}
		if d.PostMessage != nil {
			d.PostMessage(id)
		}
		resp.SetOK()
	default:
		return errProtocol
	}
	return nil
}

func (d *Dispatcher) handleGet(tokens []string, resp *protocol.Response) error {
	if len(tokens) < 2 {
		return errProtocol
	}
	switch tokens[1] {
	case protocol.KeyWidth:
		if d.SurfaceSize == nil {
			return errProtocol
		}
		w, _ := d.SurfaceSize()
		resp.AddField(strconv.Itoa(w))
	case protocol.KeyHeight:
		if d.SurfaceSize == nil {
			return errProtocol
		}
		_, h := d.SurfaceSize()
		resp.AddField(strconv.Itoa(h))
	case protocol.KeyTextSize:
		if len(tokens) < 3 || d.MeasureText == nil {
			return errProtocol
		}
		w, h := d.MeasureText(tokens[2])
		resp.AddField(strconv.Itoa(w))
		resp.AddField(strconv.Itoa(h))
	case protocol.KeyTextInfoCount:
		resp.AddField(strconv.Itoa(d.Store.Count()))
	case protocol.KeyTextInfoTarget:
		if index, ok := d.Store.Target(); ok {
			resp.AddField(strconv.Itoa(index))
		} else {
			resp.AddField(protocol.TargetUnset)
		}
	case protocol.KeyRGB:
		var r, g, b int
		if err := d.Store.Active(func(l *store.Label) { r, g, b = l.Red, l.Green, l.Blue }); err != nil {
			return err
		}
		resp.AddField(strconv.Itoa(r))
		resp.AddField(strconv.Itoa(g))
		resp.AddField(strconv.Itoa(b))
	case protocol.KeyText:
		var text string
		if err := d.Store.Active(func(l *store.Label) { text = l.Text }); err != nil {
			return err
		}
		resp.AddField(text)
	case protocol.KeyXY:
		var x, y int
		if err := d.Store.Active(func(l *store.Label) { x, y = l.X, l.Y }); err != nil {
			return err
		}
		resp.AddField(strconv.Itoa(x))
		resp.AddField(strconv.Itoa(y))
	case protocol.KeyTransportVersion:
		resp.AddField(protocol.TransportVersion)
	default:
		return errProtocol
	}
	return nil
}

func (d *Dispatcher) handleSet(tokens []string, resp *protocol.Response) error {
	if len(tokens) < 2 {
		return errProtocol
	}
	switch tokens[1] {
	case protocol.KeyRGB:
		r, err := intArg(tokens, 2)
		if err != nil {
			return err
		}
		g, err := intArg(tokens, 3)
		if err != nil {
			return err
		}
		b, err := intArg(tokens, 4)
		if err != nil {
			return err
		}
		if err := d.Store.Active(func(l *store.Label) { l.Red, l.Green, l.Blue = r, g, b }); err != nil {
			return err
		}
		resp.SetOK()
	case protocol.KeyText:
		if len(tokens) < 3 {
			return errProtocol
		}
		// Only the first payload token survives: the delimiter is not
		// escaped, so commas in the text are lost here by design.
		text := tokens[2]
		if err := d.Store.Active(func(l *store.Label) { l.Text = text }); err != nil {
			return err
		}
		resp.SetOK()
	case protocol.KeyXY:
		x, err := intArg(tokens, 2)
		if err != nil {
			return err
		}
		y, err := intArg(tokens, 3)
		if err != nil {
			return err
		}
		if err := d.Store.Active(func(l *store.Label) { l.X, l.Y = x, y }); err != nil {
			return err
		}
		resp.SetOK()
	case protocol.KeyWinMsg:
		id, err := msgArg(tokens, 2)
		if err != nil {
			return err
		}
		if len(tokens) < 4 {
			if err := d.Actions.Unset(id); err != nil {
				return err
			}
		} else {
			d.Actions.Set(id, tokens[3])
		}
		resp.SetOK()
	case protocol.KeyTextInfoTarget:
		if len(tokens) < 3 {
			d.Store.SetTarget(nil)
		} else {
			// Out-of-range values are accepted here; they surface as
			// TextInfoTargetInvalid on the next resolution.
			index, err := intArg(tokens, 2)
			if err != nil {
				return err
			}
			d.Store.SetTarget(&index)
		}
		resp.SetOK()
	case protocol.KeyLoggingEnabled:
		v, err := intArg(tokens, 2)
		if err != nil {
			return err
		}
		if d.SetLogging != nil {
			d.SetLogging(v != 0)
		}
		resp.SetOK()
	default:
		return errProtocol
	}
	return nil
}

func (d *Dispatcher) invalidate() {
	if d.Invalidate != nil {
		d.Invalidate()
	}
}

func intArg(tokens []string, i int) (int, error) {
	if i >= len(tokens) {
		return 0, errArgument
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		return 0, errArgument
	}
	return v, nil
}

func msgArg(tokens []string, i int) (uint32, error) {
	if i >= len(tokens) {
		return 0, errArgument
	}
	v, err := strconv.ParseUint(tokens[i], 10, 32)
	if err != nil {
		return 0, errArgument
	}
	return uint32(v), nil
}
