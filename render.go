package asciify

import (
	"context"
	"sync"
)

// ImageSpec describes one embedded image a document renderer encountered.
// At most one of Data, Path and URL is set, in that order of preference.
type ImageSpec struct {
	Data []byte
	Path string
	URL  string
}

// source maps an ImageSpec onto the conversion source forms.
func (s ImageSpec) source() (Source, bool) {
	switch {
	case len(s.Data) > 0:
		return Bytes(s.Data), true
	case s.Path != "":
		return Path(s.Path), true
	case s.URL != "":
		return URL(s.URL), true
	default:
		return nil, false
	}
}

// Renderer is the capability a document renderer invokes per embedded image.
// Render returns the styled-text replacement for the image and true, or
// (nil, false) when the host should fall back to drawing the image itself.
type Renderer interface {
	Render(ctx context.Context, spec ImageSpec) ([]StyledRun, bool)
}

// DefaultRenderOptions is the option bundle the text renderer uses: Braille
// glyphs with dithering, threshold 100, the complex glyph set, and no echo
// to the display surface.
func DefaultRenderOptions() Options {
	return Options{
		Braille:   true,
		Dither:    true,
		Threshold: 100,
		Complex:   true,
		NoDisplay: true,
	}
}

// TextRenderer converts embedded images to styled text through a Converter,
// so repeated renders of the same bytes hit the cache instead of spawning
// the converter again.
type TextRenderer struct {
	conv *Converter
	opts Options
}

// NewTextRenderer creates a TextRenderer using DefaultRenderOptions.
func NewTextRenderer(conv *Converter) *TextRenderer {
	return &TextRenderer{conv: conv, opts: DefaultRenderOptions()}
}

// NewTextRendererOptions creates a TextRenderer with explicit options.
func NewTextRendererOptions(conv *Converter, opts Options) *TextRenderer {
	return &TextRenderer{conv: conv, opts: opts}
}

// Render implements Renderer. Conversion failures decline the image rather
// than failing the surrounding document render.
func (r *TextRenderer) Render(ctx context.Context, spec ImageSpec) ([]StyledRun, bool) {
	src, ok := spec.source()
	if !ok {
		return nil, false
	}
	art, err := r.conv.Convert(ctx, src, r.opts)
	if err != nil {
		r.conv.log.Debug().Err(err).Msg("text render declined")
		return nil, false
	}
	return art.Runs, true
}

// NativeRenderer always declines, leaving every image to the host's own
// drawing. Swapping it in restores the original image display.
type NativeRenderer struct{}

// Render implements Renderer.
func (NativeRenderer) Render(ctx context.Context, spec ImageSpec) ([]StyledRun, bool) {
	return nil, false
}

// RenderPipeline holds the active rendering strategy for a document
// renderer. Enabling and disabling text images is a matter of setting the
// active strategy, not swapping function pointers.
type RenderPipeline struct {
	mu     sync.RWMutex
	active Renderer
}

// NewRenderPipeline creates a pipeline with the given initial strategy.
func NewRenderPipeline(active Renderer) *RenderPipeline {
	return &RenderPipeline{active: active}
}

// SetRenderer replaces the active strategy.
func (p *RenderPipeline) SetRenderer(r Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = r
}

// Render delegates to the active strategy.
func (p *RenderPipeline) Render(ctx context.Context, spec ImageSpec) ([]StyledRun, bool) {
	p.mu.RLock()
	r := p.active
	p.mu.RUnlock()
	if r == nil {
		return nil, false
	}
	return r.Render(ctx, spec)
}
