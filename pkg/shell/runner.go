package shell

import (
	"context"
	"log/slog"

	"github.com/mchmarny/navmenu/pkg/server"
)

// Run serves the shell API and blocks until the context is canceled or an
// error occurs. The API routes and a health check are registered on top of
// the given server options.
func (s *Shell) Run(ctx context.Context, opt ...server.Option) error {
	opt = append(opt, server.WithSimpleHealth())
	for pattern, h := range s.Routes() {
		opt = append(opt, server.WithHandler(pattern, h))
	}

	s.mu.Lock()
	slog.Info("starting shell", "title", s.menu.Title, "links", len(s.links))
	s.mu.Unlock()

	return server.New(opt...).Serve(ctx)
}
