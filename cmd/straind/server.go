package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.lsp.dev/jsonrpc2"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/debug"
	"github.com/strain-format/strain/document"
	"github.com/strain-format/strain/encode"
	"github.com/strain-format/strain/ir"
)

// server holds the open documents by name. One connection may issue
// concurrent requests, so access goes through the mutex; within a
// document the usual single writer rule then holds.
type server struct {
	mu   sync.Mutex
	docs map[string]*document.Document
}

func newServer() *server {
	return &server{docs: map[string]*document.Document{}}
}

func (s *server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if debug.RPC() {
		debug.Logf("straind <- %s %s\n", req.Method(), string(req.Params()))
	}
	res, err := s.dispatch(req)
	if err != nil && debug.RPC() {
		debug.Logf("straind %s: %v\n", req.Method(), err)
	}
	return reply(ctx, res, err)
}

func (s *server) dispatch(req jsonrpc2.Request) (any, error) {
	switch req.Method() {
	case "strain/open":
		return s.open(req.Params())
	case "strain/get":
		return s.get(req.Params())
	case "strain/set":
		return s.set(req.Params())
	case "strain/diff":
		return s.diff(req.Params())
	case "strain/apply":
		return s.apply(req.Params())
	case "strain/log":
		return s.log(req.Params())
	case "strain/pop":
		return s.pop(req.Params())
	}
	return nil, jsonrpc2.ErrMethodNotFound
}

type openParams struct {
	Name string          `json:"name"`
	Type string          `json:"type,omitempty"`
	Doc  json.RawMessage `json:"doc"`
}

type openResult struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
}

func (s *server) open(params json.RawMessage) (any, error) {
	var p openParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	if p.Type == "" {
		p.Type = "Document"
	}
	doc, err := document.FromJSON(p.Type, p.Doc)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.docs[p.Name] = doc
	s.mu.Unlock()
	fields := doc.Schema().Fields()
	res := &openResult{Name: p.Name, Type: p.Type, Fields: make([]string, len(fields))}
	for i, f := range fields {
		res.Fields[i] = f.Name
	}
	return res, nil
}

type docParams struct {
	Name string `json:"name"`
}

func (s *server) get(params json.RawMessage) (any, error) {
	var p docParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	doc, err := s.doc(p.Name)
	if err != nil {
		return nil, err
	}
	return rawValue(doc.Value())
}

type setParams struct {
	Name  string          `json:"name"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (s *server) set(params json.RawMessage) (any, error) {
	var p setParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	doc, err := s.doc(p.Name)
	if err != nil {
		return nil, err
	}
	v, err := ir.FromJSON(p.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: value: %v", jsonrpc2.ErrInvalidParams, err)
	}
	patch, err := strain.Set(doc, p.Field, v)
	if err != nil {
		return nil, err
	}
	ps, err := strain.Combine(doc.Schema(), patch)
	if err != nil {
		return nil, err
	}
	return rawPatchSet(ps)
}

type diffParams struct {
	Type string          `json:"type,omitempty"`
	A    json.RawMessage `json:"a"`
	B    json.RawMessage `json:"b"`
}

func (s *server) diff(params json.RawMessage) (any, error) {
	var p diffParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	if p.Type == "" {
		p.Type = "Document"
	}
	a, err := document.FromJSON(p.Type, p.A)
	if err != nil {
		return nil, err
	}
	b, err := document.FromJSON(p.Type, p.B)
	if err != nil {
		return nil, err
	}
	ps, err := strain.Diff(a, b)
	if err != nil {
		return nil, err
	}
	return rawPatchSet(ps)
}

type applyParams struct {
	Name     string          `json:"name"`
	PatchSet json.RawMessage `json:"patchset"`
}

func (s *server) apply(params json.RawMessage) (any, error) {
	var p applyParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	doc, err := s.doc(p.Name)
	if err != nil {
		return nil, err
	}
	ps, err := encode.FromJSON(p.PatchSet, encode.DecodeSchema(doc.Schema()))
	if err != nil {
		return nil, err
	}
	if err := strain.Apply(doc, ps); err != nil {
		return nil, err
	}
	return rawValue(doc.Value())
}

type logParams struct {
	Name  string `json:"name"`
	Where string `json:"where,omitempty"`
}

func (s *server) log(params json.RawMessage) (any, error) {
	var p logParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	doc, err := s.doc(p.Name)
	if err != nil {
		return nil, err
	}
	var entries []*strain.PatchSet
	if p.Where == "" {
		entries = doc.History().List()
	} else if entries, err = doc.History().Select(p.Where); err != nil {
		return nil, fmt.Errorf("%w: where: %v", jsonrpc2.ErrInvalidParams, err)
	}
	res := make([]json.RawMessage, len(entries))
	for i, ps := range entries {
		if res[i], err = rawPatchSet(ps); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *server) pop(params json.RawMessage) (any, error) {
	var p docParams
	if err := unmarshal(params, &p); err != nil {
		return nil, err
	}
	doc, err := s.doc(p.Name)
	if err != nil {
		return nil, err
	}
	ps, err := strain.Pop(doc)
	if err != nil {
		return nil, err
	}
	return rawPatchSet(ps)
}

func (s *server) doc(name string) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: no open document %q", jsonrpc2.ErrInvalidParams, name)
	}
	return doc, nil
}

func unmarshal(params json.RawMessage, v any) error {
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err)
	}
	return nil
}

func rawPatchSet(ps *strain.PatchSet) (json.RawMessage, error) {
	d, err := encode.JSON(ps)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(d), nil
}

func rawValue(v *ir.Value) (json.RawMessage, error) {
	d, err := ir.ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(d), nil
}
