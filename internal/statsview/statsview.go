//go:build statsview
// +build statsview

package statsview

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"nescore/internal/logger"
)

const url = "/debug/statsview"

// Launch starts the stats server on addr in a new goroutine and reports its
// URL to output. An empty addr means DefaultAddress. The address is bound
// once up front so that a port already in use is returned to the caller.
func Launch(addr string, output io.Writer) error {
	if addr == "" {
		addr = DefaultAddress
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("statsview: %w", err)
	}
	l.Close()

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logf(logger.Allow, "statsview", "server stopped: %v", err)
		}
	}()

	_, err = fmt.Fprintf(output, "stats server available at http://%s%s\n", addr, url)
	return err
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
