// Package jsonfile implements the document credential backend: the whole
// snapshot lives in one JSON file and every mutation rewrites it in full.
package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"

	"github.com/accountingops/credvault/internal/domain/model"
	"github.com/accountingops/credvault/internal/domain/port/driven"
)

// document is the on-disk layout: a top-level object with an ordered list
// of clients. Client order is insertion order and survives round-trips.
type document struct {
	Clients []clientObject `json:"clients"`
}

type clientObject struct {
	Name     string                      `json:"name"`
	Services map[string]credentialObject `json:"services"`
}

type credentialObject struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RefreshToken string `json:"refreshToken"`
	Region       string `json:"region"`
	Environment  string `json:"environment"`
}

// Compile-time interface satisfaction check.
var _ driven.CredentialBackend = (*Backend)(nil)

// Backend persists client profiles as a single JSON document. Writes go
// through a temp file renamed into place, so a failed write never clobbers
// the prior document.
type Backend struct {
	path string
}

// OpenBackend binds the backend to path. A missing file is a valid empty
// store; an unreadable or malformed document fails here rather than on the
// first reload.
func OpenBackend(path string) (*Backend, error) {
	b := &Backend{path: path}
	if _, err := b.read(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load returns all profiles in document order.
func (b *Backend) Load(ctx context.Context) ([]model.ClientProfile, error) {
	doc, err := b.read()
	if err != nil {
		return nil, err
	}

	profiles := make([]model.ClientProfile, 0, len(doc.Clients))
	for _, client := range doc.Clients {
		profiles = append(profiles, client.toProfile())
	}
	return profiles, nil
}

// ReplaceClient swaps the client's whole entry, keeping its position in the
// document, or appends a new entry at the end. The entire document is then
// rewritten.
func (b *Backend) ReplaceClient(ctx context.Context, profile model.ClientProfile) error {
	doc, err := b.read()
	if err != nil {
		return err
	}

	entry := fromProfile(profile)
	replaced := false
	for i, client := range doc.Clients {
		if strings.EqualFold(client.Name, entry.Name) {
			doc.Clients[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Clients = append(doc.Clients, entry)
	}

	return b.write(doc)
}

// RemoveClient drops the client's entry and rewrites the document. Unknown
// names leave the file untouched.
func (b *Backend) RemoveClient(ctx context.Context, name string) (bool, error) {
	doc, err := b.read()
	if err != nil {
		return false, err
	}

	kept := doc.Clients[:0]
	removed := false
	for _, client := range doc.Clients {
		if strings.EqualFold(client.Name, name) {
			removed = true
			continue
		}
		kept = append(kept, client)
	}
	if !removed {
		return false, nil
	}

	doc.Clients = kept
	if err := b.write(doc); err != nil {
		return false, err
	}
	return true, nil
}

// Close is a no-op; the backend holds no open handle between calls.
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) read() (document, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("%w: read %s: %v", driven.ErrIO, b.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: parse %s: %v", driven.ErrFormat, b.path, err)
	}
	return doc, nil
}

func (b *Backend) write(doc document) error {
	if doc.Clients == nil {
		doc.Clients = []clientObject{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential document: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(b.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write %s: %v", driven.ErrIO, b.path, err)
	}
	return nil
}

func (c clientObject) toProfile() model.ClientProfile {
	profile := model.ClientProfile{
		DisplayName: c.Name,
		Services:    make(map[string]model.ServiceCredential, len(c.Services)),
	}
	for service, cred := range c.Services {
		profile.Services[service] = model.ServiceCredential{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			RefreshToken: cred.RefreshToken,
			Region:       cred.Region,
			Environment:  cred.Environment,
		}
	}
	return profile
}

func fromProfile(p model.ClientProfile) clientObject {
	entry := clientObject{
		Name:     strings.TrimSpace(p.DisplayName),
		Services: make(map[string]credentialObject, len(p.Services)),
	}
	for service, cred := range p.Services {
		entry.Services[service] = credentialObject{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			RefreshToken: cred.RefreshToken,
			Region:       cred.Region,
			Environment:  cred.Environment,
		}
	}
	return entry
}
