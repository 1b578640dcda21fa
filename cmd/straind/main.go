// Command straind serves strain operations over JSON-RPC 2.0 on
// stdin/stdout. Clients open named documents and then set fields, apply
// patch sets, inspect history, and pop, with the server holding the
// tracked state.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
)

func main() {
	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	server := newServer()
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, server.handle)
	<-conn.Done()
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
