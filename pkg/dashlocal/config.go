package dashlocal

import (
	"os"
	"time"

	"github.com/sawka/dashborg-dialog/pkg/dashutil"
)

const (
	DefaultAddr         = "localhost:8082"
	DefaultUiTimeout    = 60 * time.Second
	DefaultDrainTimeout = 10 * time.Second
)

type ContainerConfig struct {
	Addr         string        // defaults to localhost:8082 (DASHDIALOG_ADDR)
	ShutdownCh   chan struct{} // channel for shutting down server
	Env          string        // "prod" or "dev" (DASHDIALOG_ENV), dev turns on client-side action logging
	Verbose      bool          // DASHDIALOG_VERBOSE
	HtmlFile     string        // optional page shell, watched for changes (DASHDIALOG_HTMLFILE)
	UiTimeout    time.Duration // UIs not accessed for this long are discarded (DASHDIALOG_UITIMEOUT)
	DrainTimeout time.Duration // long-poll wait (DASHDIALOG_DRAINTIMEOUT)
}

func (c *ContainerConfig) SetDefaults() {
	c.Addr = dashutil.DefaultString(c.Addr, os.Getenv("DASHDIALOG_ADDR"), DefaultAddr)
	c.Env = dashutil.DefaultString(c.Env, os.Getenv("DASHDIALOG_ENV"), "prod")
	c.HtmlFile = dashutil.DefaultString(c.HtmlFile, os.Getenv("DASHDIALOG_HTMLFILE"))
	c.Verbose = dashutil.EnvOverride(c.Verbose, "DASHDIALOG_VERBOSE")
	if c.UiTimeout == 0 {
		c.UiTimeout = dashutil.EnvDuration(DefaultUiTimeout, "DASHDIALOG_UITIMEOUT")
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = dashutil.EnvDuration(DefaultDrainTimeout, "DASHDIALOG_DRAINTIMEOUT")
	}
}
