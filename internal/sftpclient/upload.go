package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

type Config struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	InsecureIgnoreHostKey bool
	KnownHostsFile        string
}

var ErrMissingCredentials = errors.New("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")

func (cfg Config) withDefaults() (Config, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return cfg, ErrMissingCredentials
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	return cfg, nil
}

func (cfg Config) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if cfg.KnownHostsFile == "" {
		return nil, errors.New("sftp: host key checking enabled but no known_hosts file set (SFTP_KNOWN_HOSTS)")
	}
	cb, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("sftp: known_hosts: %w", err)
	}
	return cb, nil
}

// dial opens the SSH connection; ssh.Dial ignores ctx so it runs on its own goroutine.
func dial(ctx context.Context, cfg Config) (*ssh.Client, error) {
	cb, err := cfg.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         20 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		// Close a connection that lands after we gave up on it.
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}

// UploadFile uploads one local file as RemoteDir/remoteFileName.
func UploadFile(ctx context.Context, cfg Config, localPath string, remoteFileName string) error {
	return UploadFiles(ctx, cfg, map[string]string{localPath: remoteFileName})
}

// UploadFiles uploads every localPath -> remote name pair over a single SSH session.
// An empty remote name uses the local base name. It stops at the first failure.
func UploadFiles(ctx context.Context, cfg Config, files map[string]string) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	sshClient, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	if err := sftpCli.MkdirAll(cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", cfg.RemoteDir, err)
	}

	for localPath, remoteName := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sftp: upload canceled: %w", err)
		}
		if remoteName == "" {
			remoteName = filepath.Base(localPath)
		}
		if err := copyFile(sftpCli, localPath, path.Join(cfg.RemoteDir, remoteName)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(cli *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	dst, err := cli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("sftp: upload copy %s: %w", remotePath, err)
	}
	return nil
}
