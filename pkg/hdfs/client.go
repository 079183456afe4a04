// Package hdfs talks to the NameNode directly. The export path never uses
// it; it backs the read-only status command.
package hdfs

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/colinmarc/hdfs/v2"
)

type Config struct {
	NameNodes []string
	Username  string
}

// FileInfo is one entry of a table directory.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
	Owner   string
}

// TableState describes what currently sits under <root>/<table>.
type TableState struct {
	Table  string
	Dir    string
	Exists bool
	Files  []FileInfo
}

type dirReader interface {
	ReadDir(dirname string) ([]os.FileInfo, error)
}

// Client wraps a colinmarc/hdfs client.
type Client struct {
	client *hdfs.Client
}

func NewClient(cfg Config) (*Client, error) {
	if len(cfg.NameNodes) == 0 {
		return nil, fmt.Errorf("at least one NameNode is required")
	}
	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: cfg.NameNodes,
		User:      cfg.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HDFS client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Inspect lists the target directory of every table.
func (c *Client) Inspect(root string, tables []string) ([]TableState, error) {
	return inspect(c.client, root, tables)
}

func inspect(r dirReader, root string, tables []string) ([]TableState, error) {
	states := make([]TableState, 0, len(tables))
	for _, table := range tables {
		dir := path.Join(root, table)
		state := TableState{Table: table, Dir: dir}

		infos, err := r.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				states = append(states, state)
				continue
			}
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}

		state.Exists = true
		for _, info := range infos {
			fi := FileInfo{
				Name:    info.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				IsDir:   info.IsDir(),
			}
			if hfi, ok := info.(*hdfs.FileInfo); ok {
				fi.Owner = hfi.Owner()
			}
			state.Files = append(state.Files, fi)
		}
		states = append(states, state)
	}
	return states, nil
}
