package source

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/text/unicode/norm"

	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/picker"
)

// SFTP lists a remote host over an SFTP session
type SFTP struct {
	client *sftp.Client
	conn   io.Closer
	name   string
}

// DialSFTP connects to the host in cfg and opens an SFTP session on it
func DialSFTP(cfg *config.SFTPConfig, timeout time.Duration) (*SFTP, error) {
	sshConfig := &ssh.ClientConfig{
		User:    cfg.User,
		Timeout: timeout,
	}

	if cfg.Insecure {
		logrus.Warnf("source: host key verification disabled for %s", cfg.Host)
		sshConfig.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := knownhosts.New(expandHome(cfg.KnownHosts))
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		sshConfig.HostKeyCallback = callback
	}

	if cfg.KeyFile != "" {
		key, err := os.ReadFile(expandHome(cfg.KeyFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(cfg.Password))
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}

	logrus.Infof("source: connected to %s@%s", cfg.User, addr)
	return NewSFTP(client, conn, fmt.Sprintf("sftp://%s@%s", cfg.User, addr)), nil
}

// NewSFTP wraps an open SFTP client. conn, when not nil, is closed after
// the client.
func NewSFTP(client *sftp.Client, conn io.Closer, name string) *SFTP {
	return &SFTP{client: client, conn: conn, name: name}
}

// Name implements Source
func (s *SFTP) Name() string {
	return s.name
}

// Abs resolves ~ and relative paths against the remote working directory
func (s *SFTP) Abs(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/")
	}
	if !path.IsAbs(p) {
		wd, err := s.client.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get remote working directory: %w", err)
		}
		p = path.Join(wd, p)
	}
	return path.Clean(p), nil
}

// Stat follows symlinks
func (s *SFTP) Stat(p string) (picker.Kind, error) {
	info, err := s.client.Stat(p)
	if err != nil {
		return picker.KindFile, err
	}
	if info.IsDir() {
		return picker.KindDirectory, nil
	}
	return picker.KindFile, nil
}

// ReadDir lists p, following symlinks per entry
func (s *SFTP) ReadDir(p string) ([]picker.RawEntry, error) {
	infos, err := s.client.ReadDir(p)
	if err != nil {
		return nil, err
	}

	entries := make([]picker.RawEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		raw := picker.RawEntry{Name: name, Kind: picker.KindFile}
		if display := norm.NFC.String(name); display != name {
			raw.DisplayName = display
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := s.client.Stat(path.Join(p, name))
			if err != nil {
				raw.Err = err
				entries = append(entries, raw)
				continue
			}
			info = target
		}
		if info.IsDir() {
			raw.Kind = picker.KindDirectory
		}
		raw.Meta = &picker.Meta{Size: info.Size(), Modified: info.ModTime()}
		entries = append(entries, raw)
	}
	return entries, nil
}

// Resolve asks the server for the canonical path
func (s *SFTP) Resolve(p string) (string, error) {
	return s.client.RealPath(p)
}

// Open implements Source
func (s *SFTP) Open(p string) (io.ReadCloser, error) {
	return s.client.Open(p)
}

// Close ends the SFTP session and the connection under it
func (s *SFTP) Close() error {
	err := s.client.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
