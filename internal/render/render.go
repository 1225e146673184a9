package render

import "strings"

// Markdown renders markdown content for terminal display using a cached renderer
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.checkout(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	out, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// MarkdownWithWidth renders with default options at the given width
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}
