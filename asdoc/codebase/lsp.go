package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/asdoc/asdoc/diag"
)

const lsName = "asdoc"

// maxSymbols bounds a workspace/symbol answer.
const maxSymbols = 200

// Loader opens the codebase of the documentation set rooted at dir.
type Loader func(rootDir string) (*Codebase, error)

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	load     Loader
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu     sync.RWMutex
	docs   map[string]string
	notify glsp.NotifyFunc
}

func NewLSPServer(version string, load Loader) *LSPServer {
	ls := &LSPServer{
		version: version,
		load:    load,
		docs:    make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentHover:     ls.textDocumentHover,
		WorkspaceSymbol:       ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cb, err := ls.load(rootDir)
	if err != nil {
		return nil, err
	}
	ls.codebase = cb

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.HoverProvider = true
	capabilities.WorkspaceSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.OnRebuild = func(error) { ls.publishDiagnostics() }
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setDoc(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.setDoc(params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) setDoc(uri, text string) {
	ls.mu.Lock()
	ls.docs[uri] = text
	ls.mu.Unlock()
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ls.mu.RLock()
	text, ok := ls.docs[params.TextDocument.URI]
	ls.mu.RUnlock()
	if !ok || ls.codebase == nil {
		return nil, nil
	}

	word := wordAt(text, int(params.Position.Line), int(params.Position.Character))
	if word == "" {
		return nil, nil
	}
	entries := ls.codebase.Find(word)
	if len(entries) == 0 {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: Hover(entries[0]),
		},
	}, nil
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	if ls.codebase == nil {
		return nil, nil
	}
	uri := pathToURI(ls.codebase.Input())
	var out []protocol.SymbolInformation
	for _, e := range ls.codebase.Search(params.Query, maxSymbols) {
		out = append(out, symbolInformation(e, uri))
	}
	return out, nil
}

func symbolInformation(e *Entry, uri string) protocol.SymbolInformation {
	info := protocol.SymbolInformation{
		Name:     e.Name,
		Kind:     symbolKind(e),
		Location: protocol.Location{URI: uri},
	}
	if e.Container != "" {
		container := e.Container
		info.ContainerName = &container
	}
	return info
}

func symbolKind(e *Entry) protocol.SymbolKind {
	switch e.Kind {
	case EntryPackage:
		return protocol.SymbolKindPackage
	case EntryClassifier:
		if e.IsInterface() {
			return protocol.SymbolKindInterface
		}
		return protocol.SymbolKindClass
	case EntryConstructor:
		return protocol.SymbolKindConstructor
	case EntryOperation:
		if !strings.Contains(e.Container, ":") {
			return protocol.SymbolKindFunction
		}
		return protocol.SymbolKindMethod
	case EntryValue:
		if e.IsProperty() {
			return protocol.SymbolKindProperty
		}
		return protocol.SymbolKindField
	case EntryEvent:
		return protocol.SymbolKindEvent
	}
	return protocol.SymbolKindVariable
}

// publishDiagnostics reports the batch diagnostics against the descriptor
// file.
func (ls *LSPServer) publishDiagnostics() {
	ls.mu.RLock()
	notify := ls.notify
	ls.mu.RUnlock()
	if notify == nil || ls.codebase == nil {
		return
	}
	params := protocol.PublishDiagnosticsParams{
		URI:         pathToURI(ls.codebase.Input()),
		Diagnostics: toProtocolDiagnostics(ls.codebase.Diagnostics(), ls.codebase.Err()),
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func toProtocolDiagnostics(entries []diag.Entry, buildErr error) []protocol.Diagnostic {
	source := lsName
	out := make([]protocol.Diagnostic, 0, len(entries)+1)
	if buildErr != nil {
		sev := protocol.DiagnosticSeverityError
		out = append(out, protocol.Diagnostic{Severity: &sev, Source: &source, Message: buildErr.Error()})
	}
	for _, e := range entries {
		sev := protocol.DiagnosticSeverityWarning
		if e.Severity == diag.SeverityError {
			sev = protocol.DiagnosticSeverityError
		}
		out = append(out, protocol.Diagnostic{
			Severity: &sev,
			Source:   &source,
			Message:  e.String(),
		})
	}
	return out
}

// wordAt returns the identifier under a zero-based line and character
// position.
func wordAt(text string, line, char int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	l := lines[line]
	if char < 0 || char > len(l) {
		return ""
	}
	start, end := char, char
	for start > 0 && isIdentByte(l[start-1]) {
		start--
	}
	for end < len(l) && isIdentByte(l[end]) {
		end++
	}
	return l[start:end]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
