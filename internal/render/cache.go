package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdleRenderers bounds the idle renderers kept per option set
const maxIdleRenderers = 4

// rendererCache hands out glamour renderers keyed by their Options.
// A TermRenderer is not safe for concurrent Render calls, so each caller
// checks one out and releases it afterwards.
type rendererCache struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var renderers = &rendererCache{idle: make(map[Options][]*glamour.TermRenderer)}

func (c *rendererCache) checkout(opts Options) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	free := c.idle[opts]
	if n := len(free); n > 0 {
		r := free[n-1]
		c.idle[opts] = free[:n-1]
		c.mu.Unlock()
		return r, nil
	}
	if _, seen := c.idle[opts]; !seen {
		c.idle[opts] = nil
	}
	c.mu.Unlock()

	return createRenderer(opts)
}

func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.idle[opts]) < maxIdleRenderers {
		c.idle[opts] = append(c.idle[opts], r)
	}
}

func (c *rendererCache) idleCount(opts Options) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.idle[opts])
}

// createRenderer builds a TermRenderer. Style may be a glamour style name,
// an alias or a path to a JSON style file.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(ResolveStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every idle renderer
func ClearCache() {
	renderers.mu.Lock()
	renderers.idle = make(map[Options][]*glamour.TermRenderer)
	renderers.mu.Unlock()
}

// CacheSize returns the number of option sets seen since the last clear
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.idle)
}
