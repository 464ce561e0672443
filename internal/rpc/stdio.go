package rpc

import "io"

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

// Stdio joins a reader and writer, typically os.Stdin and os.Stdout, into the
// single stream jsonrpc2 expects.
func Stdio(reader io.ReadCloser, writer io.WriteCloser) io.ReadWriteCloser {
	return &stdioReadWriteCloser{reader: reader, writer: writer}
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
