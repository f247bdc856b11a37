package outputbuf

// Write implements io.Writer so a Buffer can be handed to exec.Cmd as the
// child's stdout or stderr. The input is copied before it is appended:
// io.Writer callers are free to reuse p after Write returns.
func (b *Buffer) Write(p []byte) (int, error) {
	if b == nil {
		return len(p), nil
	}
	if len(p) == 0 {
		return 0, nil
	}
	cp := append([]byte(nil), p...)
	b.Append(cp)
	return len(p), nil
}
