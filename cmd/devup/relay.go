package main

import (
	"bytes"
	"io"
	"sync"

	"github.com/devup-sh/devup/pkg/lib/supervisor"
)

// prefixWriter tags every line with a process name so interleaved output
// from concurrent children stays attributable. Chunks from the supervisor
// are not line-framed, so the writer tracks whether it is mid-line.
type prefixWriter struct {
	w       io.Writer
	prefix  []byte
	midline bool
}

func (pw *prefixWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		if !pw.midline {
			if _, err := pw.w.Write(pw.prefix); err != nil {
				return total - len(p), err
			}
			pw.midline = true
		}
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			if _, err := pw.w.Write(p); err != nil {
				return total - len(p), err
			}
			break
		}
		if _, err := pw.w.Write(p[:i+1]); err != nil {
			return total - len(p), err
		}
		pw.midline = false
		p = p[i+1:]
	}
	return total, nil
}

// relayOutput subscribes to a process's stdout and stderr and pumps them to
// the given writers until the process exits and its buffers drain.
func relayOutput(sup *supervisor.Supervisor, h *supervisor.Handle, stdout, stderr io.Writer, wg *sync.WaitGroup) error {
	stdoutCh, stderrCh, err := sup.Output(h)
	if err != nil {
		return err
	}
	wg.Add(2)
	go pump(stdoutCh, stdout, wg)
	go pump(stderrCh, stderr, wg)
	return nil
}

func pump(ch <-chan []byte, w io.Writer, wg *sync.WaitGroup) {
	defer wg.Done()
	for chunk := range ch {
		_, _ = w.Write(chunk)
	}
}
