// Package dashlocal serves dashui views to browsers over HTTP.  Each page load
// creates a new dashui.UI, runs the connected view against it and returns the
// rendered html.  Browser events come back through /api/signal, host actions are
// pushed over a websocket (/api/stream) or long-polled (/api/drain).
//
// While a stream is open for a UI it owns action delivery: /api/signal responses
// for that UI carry no actions, so the browser sees every action in queue order
// on the one channel.
package dashlocal

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sawka/dashborg-dialog/pkg/dasherr"
	"github.com/sawka/dashborg-dialog/pkg/dashui"
)

const CONTAINER_VERSION = "dialogcontainer-0.1.0"
const timeoutCheckInterval = 5 * time.Second

// ViewFn builds the component tree of a freshly loaded page.  It runs under the
// UI lock.
type ViewFn func(ui *dashui.UI) error

type Container struct {
	Lock   *sync.Mutex
	Config ContainerConfig
	View   ViewFn

	uiMap    map[string]*dashui.UI // uiid -> ui
	streams  map[string]int        // uiid -> open websocket streams
	rootHtml string
	metrics  *containerMetrics

	shutdownOnce sync.Once
	doneCh       chan struct{}
}

func MakeContainer(config *ContainerConfig) (*Container, error) {
	if config == nil {
		config = &ContainerConfig{}
	}
	config.SetDefaults()
	rtn := &Container{
		Lock:     &sync.Mutex{},
		Config:   *config,
		uiMap:    make(map[string]*dashui.UI),
		streams:  make(map[string]int),
		rootHtml: defaultRootHtml,
		metrics:  makeContainerMetrics(),
		doneCh:   make(chan struct{}),
	}
	if rtn.Config.HtmlFile != "" {
		err := rtn.loadHtmlFile()
		if err != nil {
			return nil, err
		}
	}
	go rtn.checkTimeoutsLoop()
	return rtn, nil
}

func (c *Container) logV(fmtStr string, args ...interface{}) {
	if c.Config.Verbose {
		log.Printf(fmtStr, args...)
	}
}

func (c *Container) ConnectView(view ViewFn) error {
	if view == nil {
		return fmt.Errorf("Cannot connect nil view to local container")
	}
	c.Lock.Lock()
	defer c.Lock.Unlock()
	if c.View != nil {
		return fmt.Errorf("Cannot connect a second view to local container")
	}
	c.View = view
	return nil
}

func (c *Container) getView() ViewFn {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	return c.View
}

// loadUI creates a UI, runs the view and mounts it.  Returns the page html and
// the actions queued while mounting.
func (c *Container) loadUI() (*dashui.UI, string, error) {
	view := c.getView()
	if view == nil {
		return nil, "", fmt.Errorf("No view connected to local container")
	}
	ui := dashui.MakeUI(&dashui.UIOpts{Verbose: c.Config.Verbose})
	err := ui.Run(func() error {
		return view(ui)
	})
	if err != nil {
		return nil, "", dasherr.ApiErr("view", err)
	}
	html, err := ui.Mount()
	if err != nil {
		return nil, "", err
	}
	c.Lock.Lock()
	c.uiMap[ui.UiId()] = ui
	numUis := len(c.uiMap)
	c.Lock.Unlock()
	c.metrics.UiLoads.Inc()
	c.metrics.ActiveUis.Set(float64(numUis))
	c.logV("dashlocal loaded ui[%s] (%d live)\n", ui.UiId(), numUis)
	return ui, html, nil
}

func (c *Container) lookupUI(uiId string) (*dashui.UI, error) {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	ui := c.uiMap[uiId]
	if ui == nil {
		return nil, dasherr.NoUiErr(uiId)
	}
	return ui, nil
}

func (c *Container) addStream(uiId string) {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	c.streams[uiId]++
}

func (c *Container) removeStream(uiId string) {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	c.streams[uiId]--
	if c.streams[uiId] <= 0 {
		delete(c.streams, uiId)
	}
}

func (c *Container) hasStream(uiId string) bool {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	return c.streams[uiId] > 0
}

func (c *Container) NumUIs() int {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	return len(c.uiMap)
}

func (c *Container) checkTimeoutsLoop() {
	t := time.NewTicker(timeoutCheckInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			break

		case <-c.doneCh:
			return
		}

		c.checkTimeouts(time.Now())
	}
}

// checkTimeouts discards UIs that have not been accessed (signal, drain, stream)
// within UiTimeout.
func (c *Container) checkTimeouts(now time.Time) {
	c.Lock.Lock()
	var uis []*dashui.UI
	for _, ui := range c.uiMap {
		uis = append(uis, ui)
	}
	c.Lock.Unlock()

	cutoff := now.Add(-c.Config.UiTimeout)
	var expired []string
	for _, ui := range uis {
		// LastAccess takes the ui lock, so not under the container lock
		if ui.LastAccess().Before(cutoff) {
			expired = append(expired, ui.UiId())
		}
	}
	if len(expired) == 0 {
		return
	}
	c.Lock.Lock()
	for _, uiId := range expired {
		delete(c.uiMap, uiId)
	}
	numUis := len(c.uiMap)
	c.Lock.Unlock()
	c.metrics.ActiveUis.Set(float64(numUis))
	c.logV("dashlocal expired %d ui(s) (%d live)\n", len(expired), numUis)
}

// Shutdown stops the timeout loop and the html file watcher.  StartContainer also
// returns once Config.ShutdownCh is closed.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		close(c.doneCh)
	})
}
