// Package dispatch routes parsed replies to keyword and command callbacks.
package dispatch

import (
	"strings"
	"sync"

	"hubmsg/internal/keyvalue"
)

// KeyVarFunc receives the values of one keyword and the reply carrying it.
type KeyVarFunc func(values []string, r keyvalue.Reply)

// CmdFunc receives every reply to a command we issued.
type CmdFunc func(r keyvalue.Reply)

type Dispatcher struct {
	cmdr string

	mu      sync.RWMutex
	keyVars map[string][]KeyVarFunc
	cmds    map[int]CmdFunc
}

// New returns a dispatcher for commands issued as cmdr.
func New(cmdr string) *Dispatcher {
	return &Dispatcher{
		cmdr:    cmdr,
		keyVars: map[string][]KeyVarFunc{},
		cmds:    map[int]CmdFunc{},
	}
}

func keyVarKey(actor, keyword string) string {
	return strings.ToLower(actor) + "." + strings.ToLower(keyword)
}

// AddKeyVar calls fn whenever actor reports keyword. Matching ignores case.
func (d *Dispatcher) AddKeyVar(actor, keyword string, fn KeyVarFunc) {
	if fn == nil {
		return
	}
	k := keyVarKey(actor, keyword)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyVars[k] = append(d.keyVars[k], fn)
}

// AddCmd calls fn for each reply to cmdID until the command is done.
// Registering the same cmdID again replaces the callback.
func (d *Dispatcher) AddCmd(cmdID int, fn CmdFunc) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmds[cmdID] = fn
}

// Pending returns the number of commands still awaiting a done reply.
func (d *Dispatcher) Pending() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cmds)
}

// Dispatch runs the callbacks matching r and returns how many ran.
// Callbacks run on the caller's goroutine without the dispatcher lock held,
// so they may register further callbacks.
func (d *Dispatcher) Dispatch(r keyvalue.Reply) int {
	type call struct {
		fn     KeyVarFunc
		values []string
	}
	var calls []call

	var keywords []keyvalue.Keyword
	if r.Body != nil {
		keywords = r.Body.Keywords
	}

	d.mu.Lock()
	for _, kw := range keywords {
		for _, fn := range d.keyVars[keyVarKey(r.Header.Actor, kw.Name)] {
			calls = append(calls, call{fn: fn, values: kw.Values})
		}
	}
	var cmdFn CmdFunc
	if r.Header.Cmdr == d.cmdr {
		cmdFn = d.cmds[r.Header.CmdID]
		if cmdFn != nil && keyvalue.IsDone(r.Header.Type) {
			delete(d.cmds, r.Header.CmdID)
		}
	}
	d.mu.Unlock()

	for _, c := range calls {
		c.fn(c.values, r)
	}
	n := len(calls)
	if cmdFn != nil {
		cmdFn(r)
		n++
	}
	return n
}
