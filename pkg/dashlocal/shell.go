package dashlocal

import (
	"fmt"
	"io/ioutil"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const htmlWatchThrottle = 500 * time.Millisecond

func (c *Container) loadHtmlFile() error {
	barr, err := ioutil.ReadFile(c.Config.HtmlFile)
	if err != nil {
		return fmt.Errorf("Cannot read html file '%s': %w", c.Config.HtmlFile, err)
	}
	html := string(barr)
	if !strings.Contains(html, runtimePlaceholder) {
		return fmt.Errorf("Html file '%s' does not contain the %s placeholder", c.Config.HtmlFile, runtimePlaceholder)
	}
	c.Lock.Lock()
	c.rootHtml = html
	c.Lock.Unlock()
	return nil
}

func (c *Container) getRootHtml() string {
	c.Lock.Lock()
	defer c.Lock.Unlock()
	return c.rootHtml
}

func (c *Container) runWatchedLoad() {
	err := c.loadHtmlFile()
	if err != nil {
		log.Printf("dashlocal error reloading watched html file=%s err=%v\n", c.Config.HtmlFile, err)
		return
	}
	log.Printf("dashlocal reloaded html file=%s\n", c.Config.HtmlFile)
}

// watchHtmlFile reloads Config.HtmlFile on write (throttled).  Runs until the
// container is shut down.
func (c *Container) watchHtmlFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	err = watcher.Add(c.Config.HtmlFile)
	if err != nil {
		watcher.Close()
		return err
	}
	go func() {
		var needsRun bool
		lastRun := time.Now()
		defer watcher.Close()
		var timer *time.Timer
		for {
			var timerCh <-chan time.Time
			if timer != nil {
				timerCh = timer.C
			}
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					dur := time.Since(lastRun)
					if dur < htmlWatchThrottle {
						needsRun = true
						if timer == nil {
							timer = time.NewTimer(htmlWatchThrottle - dur)
						}
					} else {
						needsRun = false
						c.runWatchedLoad()
						lastRun = time.Now()
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("dashlocal html watch error file=%s err=%v\n", c.Config.HtmlFile, err)
				return

			case <-timerCh:
				timer = nil
				if needsRun {
					needsRun = false
					c.runWatchedLoad()
					lastRun = time.Now()
				}

			case <-c.doneCh:
				return
			}
		}
	}()
	return nil
}
