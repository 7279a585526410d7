// Package sshserve puts the terminal client behind an ssh listener: each
// session gets its own pty running the client binary, so each visitor plays
// on a fresh local board.
package sshserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
)

const IdleTimeout = 5 * time.Minute

var ErrNoPty = errors.New("non-interactive terminals are not supported")

type Server struct {
	srv        *ssh.Server
	termBinary string
}

// New builds a server that runs termBinary for every session. An empty
// hostKeyPath lets the ssh library generate a throwaway host key.
func New(addr, termBinary, hostKeyPath string) (*Server, error) {
	s := &Server{termBinary: termBinary}
	s.srv = &ssh.Server{
		Addr:        addr,
		IdleTimeout: IdleTimeout,
		Handler:     s.handle,
	}

	if hostKeyPath != "" {
		signer, err := LoadHostKey(hostKeyPath)
		if err != nil {
			return nil, err
		}
		s.srv.AddHostKey(signer)
	}
	return s, nil
}

func LoadHostKey(path string) (gossh.Signer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host key: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse host key %s: %w", path, err)
	}
	return signer, nil
}

func (s *Server) ListenAndServe() error {
	log.Printf("SSH listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Serve(l net.Listener) error {
	err := s.srv.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handle(sess ssh.Session) {
	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, ErrNoPty.Error()+"\n")
		sess.Exit(1)
		return
	}

	cmdCtx, cancelCmd := context.WithCancel(sess.Context())
	defer cancelCmd()

	cmd := exec.CommandContext(cmdCtx, s.termBinary)
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.StartWithSize(cmd, winsize(ptyReq.Window))
	if err != nil {
		io.WriteString(sess, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()
	log.Printf("session from %s started %s", sess.RemoteAddr(), s.termBinary)

	go func() {
		for win := range winCh {
			if err := pty.Setsize(f, winsize(win)); err != nil {
				log.Printf("resize pty: %v", err)
			}
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	if err := cmd.Wait(); err != nil {
		log.Printf("session from %s ended: %v", sess.RemoteAddr(), err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}

func winsize(w ssh.Window) *pty.Winsize {
	return &pty.Winsize{Rows: uint16(w.Height), Cols: uint16(w.Width)}
}
