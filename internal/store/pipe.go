package store

import (
	"context"
	"fmt"
	"io"
)

// Pipe is a duplex convenience bound to one identifier: Read fills the
// store from a reader, Write drains the store into a writer. It is pure
// composition over Save and Retrieve.
type Pipe struct {
	store      *Store
	identifier string
}

// Pipe returns a duplex adapter for the identifier.
func (s *Store) Pipe(identifier string) *Pipe {
	return &Pipe{store: s, identifier: identifier}
}

// Read saves everything from r under the pipe's identifier.
func (p *Pipe) Read(ctx context.Context, r io.Reader) error {
	_, err := p.store.Save(ctx, p.identifier, r)
	return err
}

// Write streams the stored content into w. It fails with ErrNotFound when
// nothing is stored under the pipe's identifier, and with the first stream
// error otherwise.
func (p *Pipe) Write(ctx context.Context, w io.Writer) error {
	rc, err := p.store.Retrieve(ctx, p.identifier)
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("draining %s: %w", p.identifier, err)
	}
	return nil
}
