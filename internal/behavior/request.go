// Package behavior reads the partial-request parameters a client widget posts
// when one of its behaviors fires.
package behavior

import (
	"fmt"
	"net/http"
	"net/url"
)

const (
	SourceParam = "javax.faces.source"
	EventParam  = "javax.faces.behavior.event"
)

// Request is a decoded behavior submission.
type Request struct {
	Source string
	Event  string
	Params url.Values
}

// NewRequest wraps already-parsed form values.
func NewRequest(params url.Values) Request {
	if params == nil {
		params = url.Values{}
	}
	return Request{
		Source: params.Get(SourceParam),
		Event:  params.Get(EventParam),
		Params: params,
	}
}

// FromHTTP parses the form of r, merging query and body values.
func FromHTTP(r *http.Request) (Request, error) {
	if err := r.ParseForm(); err != nil {
		return Request{}, fmt.Errorf("error parsing behavior form: %w", err)
	}
	return NewRequest(r.Form), nil
}

// IsSource reports whether the widget with clientID sent the request.
func (r Request) IsSource(clientID string) bool {
	return r.Source == clientID
}

// Param returns the client-id scoped parameter clientID_name.
func (r Request) Param(clientID, name string) string {
	return r.Params.Get(clientID + "_" + name)
}

// Has reports whether the scoped parameter was sent at all.
func (r Request) Has(clientID, name string) bool {
	_, ok := r.Params[clientID+"_"+name]
	return ok
}
