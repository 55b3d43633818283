package site

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/spatail/vbdplayer/pkg/types"
)

var (
	ErrEmptyPointer = errors.New("stream pointer file is empty")
	ErrInvalidImage = errors.New("invalid image data")
)

var _ types.PageFetcher = (*Client)(nil)

// PageForLetter returns the album index page for a letter button, "aa.html"
// for "a".
func PageForLetter(letter string) string {
	l := strings.ToLower(strings.TrimSpace(letter))
	return l + l + ".html"
}

// Albums lists every link on the letter page except those back to an index.
func (c *Client) Albums(ctx context.Context, page string) ([]types.MediaItem, error) {
	doc, base, err := c.document(ctx, c.baseURL+page)
	if err != nil {
		return nil, &types.FetchError{Op: "albums", Key: page, Err: err}
	}

	var items []types.MediaItem
	for _, a := range elements(doc, "a") {
		href := attr(a, "href")
		if strings.HasSuffix(href, "index.html") {
			continue
		}
		items = append(items, types.NewMediaItem(text(a), absolute(base, href)))
	}

	c.debugLog("Found %d albums on %s", len(items), page)
	return items, nil
}

// Songs lists the RealAudio pointer links on an album page.
func (c *Client) Songs(ctx context.Context, albumURL string) ([]types.MediaItem, error) {
	doc, base, err := c.document(ctx, albumURL)
	if err != nil {
		return nil, &types.FetchError{Op: "songs", Key: albumURL, Err: err}
	}

	var items []types.MediaItem
	for _, a := range elements(doc, "a") {
		href := attr(a, "href")
		if !strings.HasSuffix(href, ".ram") {
			continue
		}
		items = append(items, types.NewMediaItem(text(a), absolute(base, href)))
	}

	c.debugLog("Found %d songs on %s", len(items), albumURL)
	return items, nil
}

// Cover downloads the first image on the album page served from a covers
// directory. It returns types.ErrNoCover when the page has none.
func (c *Client) Cover(ctx context.Context, albumURL string) (*types.Image, error) {
	doc, base, err := c.document(ctx, albumURL)
	if err != nil {
		return nil, &types.FetchError{Op: "cover", Key: albumURL, Err: err}
	}

	var src string
	for _, img := range elements(doc, "img") {
		if abs := absolute(base, attr(img, "src")); strings.Contains(abs, "covers") {
			src = abs
			break
		}
	}
	if src == "" {
		return nil, types.ErrNoCover
	}

	data, _, contentType, err := c.get(ctx, src, "image/*")
	if err != nil {
		return nil, &types.FetchError{Op: "cover", Key: src, Err: err}
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, &types.FetchError{Op: "cover", Key: src, Err: fmt.Errorf("invalid content type: %s", contentType)}
	}
	if !IsImageData(data) {
		return nil, &types.FetchError{Op: "cover", Key: src, Err: ErrInvalidImage}
	}

	c.debugLog("Loaded cover %s (%d bytes)", src, len(data))
	return &types.Image{Name: path.Base(src), Data: data}, nil
}

// ResolveStream reads a .ram pointer file and returns the stream URL it names.
func (c *Client) ResolveStream(ctx context.Context, songURL string) (string, error) {
	body, final, _, err := c.get(ctx, songURL, "")
	if err != nil {
		return "", &types.FetchError{Op: "resolve", Key: songURL, Err: err}
	}
	base, err := url.Parse(final)
	if err != nil {
		return "", &types.FetchError{Op: "resolve", Key: songURL, Err: err}
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stream := absolute(base, line)
		c.debugLog("Resolved %s -> %s", songURL, stream)
		return stream, nil
	}
	if err := scanner.Err(); err != nil {
		return "", &types.FetchError{Op: "resolve", Key: songURL, Err: err}
	}
	return "", &types.FetchError{Op: "resolve", Key: songURL, Err: ErrEmptyPointer}
}

// IsImageData reports whether data starts with a JPEG, PNG, GIF or WebP
// signature.
func IsImageData(data []byte) bool {
	if len(data) < 10 {
		return false
	}

	jpegHeader := []byte{0xFF, 0xD8, 0xFF}
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47}
	gifHeader := []byte{0x47, 0x49, 0x46}
	webpHeader := []byte{0x52, 0x49, 0x46, 0x46}

	return bytes.HasPrefix(data, jpegHeader) ||
		bytes.HasPrefix(data, pngHeader) ||
		bytes.HasPrefix(data, gifHeader) ||
		bytes.HasPrefix(data, webpHeader)
}

func (c *Client) document(ctx context.Context, pageURL string) (*html.Node, *url.URL, error) {
	body, final, _, err := c.get(ctx, pageURL, "text/html")
	if err != nil {
		return nil, nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(final)
	if err != nil {
		return nil, nil, fmt.Errorf("parse page url: %w", err)
	}
	if b := elements(doc, "base"); len(b) > 0 {
		if href := attr(b[0], "href"); href != "" {
			if ref, err := base.Parse(href); err == nil {
				base = ref
			}
		}
	}
	return doc, base, nil
}

// elements returns all elements named tag in document order.
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// text returns the element's text with whitespace runs collapsed.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// absolute resolves ref against base. An empty or unparsable ref yields "".
func absolute(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}
