package sshserve

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gossh "golang.org/x/crypto/ssh"
)

func writeHostKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	path := filepath.Join(t.TempDir(), "host_key")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return path
}

func TestLoadHostKey(t *testing.T) {
	signer, err := LoadHostKey(writeHostKey(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if signer.PublicKey().Type() != gossh.KeyAlgoRSA {
		t.Fatalf("expected an rsa key, got %s", signer.PublicKey().Type())
	}

	bad := filepath.Join(t.TempDir(), "bad")
	os.WriteFile(bad, []byte("not a key"), 0o600)
	if _, err := LoadHostKey(bad); err == nil {
		t.Fatalf("expected an error for a malformed key")
	}
	if _, err := LoadHostKey(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected an error for a missing key")
	}
}

func TestSessionWithoutPtyIsRefused(t *testing.T) {
	srv, err := New("127.0.0.1:0", "boardterm", writeHostKey(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(l)
	defer srv.srv.Close()

	client, err := gossh.Dial("tcp", l.Addr().String(), &gossh.ClientConfig{
		User:            "guest",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer sess.Close()

	out, err := sess.Output("play")
	if err == nil {
		t.Fatalf("expected a non-zero exit without a pty")
	}
	if !strings.Contains(string(out), ErrNoPty.Error()) {
		t.Fatalf("expected refusal message, got %q", out)
	}
}
