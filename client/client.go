package client

import (
	"io"
	"os"

	"github.com/0xef53/networkctl/core"
)

type Options struct {
	JSON    bool
	Legend  bool
	ShowAll bool
	Colors  bool
	Columns int
}

type Client struct {
	srv  *core.Server
	opts Options

	out io.Writer
}

func NewClient(srv *core.Server, opts Options) *Client {
	if opts.Columns <= 0 {
		opts.Columns = 80
	}

	return &Client{
		srv:  srv,
		opts: opts,
		out:  os.Stdout,
	}
}
