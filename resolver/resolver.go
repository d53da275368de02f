package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/internal/pathutil"
)

const (
	// MaxCachedDocuments is the default maximum number of distinct files,
	// the scenario document itself included, a single Load may read before
	// failing.
	MaxCachedDocuments = 100

	// MaxFileSize is the default maximum size, in bytes, of any single
	// referenced file.
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// Resolver loads scenario documents and resolves $ref directives within
// them, bounded by a root path and a maximum parent-traversal depth.
type Resolver struct {
	cfg       *config
	rootPath  string
	documents map[string]map[string]any
}

// NewResolver constructs a Resolver. If WithRootPath is not supplied, the
// root defaults to the directory containing the document passed to Load.
func NewResolver(opts ...Option) *Resolver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Resolver{
		cfg:       cfg,
		rootPath:  cfg.rootPath,
		documents: make(map[string]map[string]any),
	}
}

// frame identifies one (canonical file, JSON pointer) pair being actively
// resolved, used to detect reference cycles.
type frame struct {
	file    string
	pointer string
}

// Load reads path, parses it as JSON, and resolves every $ref it contains.
// The returned map contains no $ref keys.
func Load(path string, opts ...Option) (map[string]any, error) {
	r := NewResolver(opts...)
	return r.Load(path)
}

// Load reads path, parses it as JSON, and resolves every $ref it contains.
func (r *Resolver) Load(path string) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &httperrors.PathError{Ref: path, Message: err.Error()}
	}
	if r.rootPath == "" {
		r.rootPath = filepath.Dir(abs)
	}
	root, err := filepath.Abs(r.rootPath)
	if err != nil {
		return nil, &httperrors.PathError{Ref: path, Message: err.Error()}
	}
	r.rootPath = root

	doc, err := r.loadDocument(abs)
	if err != nil {
		return nil, err
	}

	resolving := make(map[frame]bool)
	resolved, err := r.resolveNode(abs, doc, doc, resolving)
	if err != nil {
		return nil, err
	}
	result, ok := resolved.(map[string]any)
	if !ok {
		return nil, &httperrors.ScenarioError{File: path, Message: "document root is not a JSON object"}
	}
	return result, nil
}

// loadDocument reads and parses the JSON file at canonicalPath, using the
// resolver's document cache.
func (r *Resolver) loadDocument(canonicalPath string) (map[string]any, error) {
	if doc, ok := r.documents[canonicalPath]; ok {
		return doc, nil
	}
	if len(r.documents) >= r.cfg.maxCachedDocuments {
		return nil, &httperrors.ScenarioError{
			File:    canonicalPath,
			Message: fmt.Sprintf("exceeded max cached documents (%d)", r.cfg.maxCachedDocuments),
		}
	}

	info, err := os.Stat(canonicalPath)
	if err != nil {
		return nil, &httperrors.PathError{Ref: canonicalPath, Message: err.Error()}
	}
	if info.Size() > r.cfg.maxFileSize {
		return nil, &httperrors.PathError{
			Ref:     canonicalPath,
			Message: fmt.Sprintf("file exceeds max size of %d bytes", r.cfg.maxFileSize),
		}
	}

	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		return nil, &httperrors.PathError{Ref: canonicalPath, Message: err.Error()}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &httperrors.ScenarioError{File: canonicalPath, Message: "invalid JSON", Cause: err}
	}

	r.cfg.logger.Debug("loaded document", "path", canonicalPath, "bytes", len(data))
	r.documents[canonicalPath] = doc
	return doc, nil
}

// resolveNode recursively resolves $ref occurrences within node. currentFile
// is the canonical path of the file node was read from; root is that file's
// parsed document, used to resolve local (#/...) refs.
func (r *Resolver) resolveNode(currentFile string, root, node any, resolving map[frame]bool) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		refStr, hasRef := v["$ref"].(string)
		if !hasRef {
			out := make(map[string]any, len(v))
			for k, val := range v {
				rv, err := r.resolveNode(currentFile, root, val, resolving)
				if err != nil {
					return nil, err
				}
				out[k] = rv
			}
			return out, nil
		}
		return r.resolveRef(currentFile, root, v, refStr, resolving)

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			rv, err := r.resolveNode(currentFile, root, item, resolving)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil

	default:
		return v, nil
	}
}

// resolveRef resolves a single $ref object (with its siblings) into a
// concrete value.
func (r *Resolver) resolveRef(currentFile string, root map[string]any, node map[string]any, refStr string, resolving map[frame]bool) (any, error) {
	filePart, pointerPart, _ := strings.Cut(refStr, "#")

	canonicalFile := currentFile
	if filePart != "" {
		canon, depth, err := r.resolveFilePath(currentFile, filePart)
		if err != nil {
			return nil, err
		}
		if depth > r.cfg.maxParentTraversal {
			return nil, &httperrors.PathError{
				Ref:      refStr,
				RootPath: r.rootPath,
				Depth:    depth,
				MaxDepth: r.cfg.maxParentTraversal,
				Message:  "exceeds max_parent_traversal_depth",
			}
		}
		canonicalFile = canon
	}

	fr := frame{file: canonicalFile, pointer: pointerPart}
	if resolving[fr] {
		return nil, &httperrors.CycleError{Frame: fmt.Sprintf("%s#%s", canonicalFile, pointerPart)}
	}
	resolving[fr] = true
	defer delete(resolving, fr)

	targetDoc := root
	if filePart != "" {
		doc, err := r.loadDocument(canonicalFile)
		if err != nil {
			return nil, err
		}
		targetDoc = doc
	}

	pointed, err := applyPointer(targetDoc, pointerPart)
	if err != nil {
		var perr *httperrors.PointerError
		if errors.As(err, &perr) {
			perr.File = canonicalFile
		}
		return nil, err
	}

	resolvedValue, err := r.resolveNode(canonicalFile, targetDoc, pointed, resolving)
	if err != nil {
		return nil, err
	}

	siblings := make(map[string]any, len(node))
	for k, val := range node {
		if k == "$ref" {
			continue
		}
		siblings[k] = val
	}
	if len(siblings) == 0 {
		return resolvedValue, nil
	}

	resolvedSiblings, err := r.resolveNode(currentFile, root, siblings, resolving)
	if err != nil {
		return nil, err
	}
	return deepMerge(resolvedValue, resolvedSiblings, pointerPart)
}

// resolveFilePath resolves filePart relative to the directory of
// currentFile, returning the canonical absolute path and the number of ".."
// segments used (for max_parent_traversal_depth enforcement), or a
// PathError if the result would escape the configured root path.
func (r *Resolver) resolveFilePath(currentFile, filePart string) (string, int, error) {
	abs, depth, err := pathutil.Contained(filepath.Dir(currentFile), r.rootPath, filePart)
	if err != nil {
		if pathutil.IsEscapesRoot(err) {
			return "", depth, &httperrors.PathError{
				Ref:      filePart,
				RootPath: r.rootPath,
				Message:  "resolved path escapes root_path",
			}
		}
		return "", depth, &httperrors.PathError{Ref: filePart, Message: err.Error()}
	}
	return abs, depth, nil
}

// applyPointer applies an RFC 6901 JSON pointer (without its leading "#")
// to doc.
func applyPointer(doc any, pointer string) (any, error) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return doc, nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")

	current := doc
	for i, tok := range tokens {
		tok = unescapeJSONPointer(tok)
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, &httperrors.PointerError{
					Pointer: "/" + strings.Join(tokens[:i+1], "/"),
					Message: fmt.Sprintf("missing key %q", tok),
				}
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, &httperrors.PointerError{
					Pointer: "/" + strings.Join(tokens[:i+1], "/"),
					Message: fmt.Sprintf("invalid array index %q (length %d)", tok, len(v)),
				}
			}
			current = v[idx]
		default:
			return nil, &httperrors.PointerError{
				Pointer: "/" + strings.Join(tokens[:i], "/"),
				Message: fmt.Sprintf("cannot traverse into %T", v),
			}
		}
	}
	return current, nil
}

// unescapeJSONPointer unescapes RFC 6901 tokens: ~1 -> /, ~0 -> ~.
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

