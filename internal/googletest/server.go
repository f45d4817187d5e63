// Package googletest provides an in-memory stand-in for the parts of the
// Google Docs, Drive and Gmail APIs that qwilo calls. Point the generated API
// clients at it with Server.ClientOptions.
package googletest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Failure points that can be switched on with Server.Fail
const (
	FailCreate   = "create"
	FailBatch    = "batch_update"
	FailMove     = "move"
	FailList     = "list"
	FailMessages = "messages"
)

const messagesPath = "/gmail/v1/users/me/messages"

const documentMimeType = "application/vnd.google-apps.document"

var (
	parentPattern   = regexp.MustCompile(`'([^']+)' in parents`)
	mimeTypePattern = regexp.MustCompile(`mimeType\s*=\s*'([^']+)'`)
)

// Server is a fake Docs, Drive and Gmail backend
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	documents map[string]*docs.Document
	files     map[string]*drive.File
	batches   map[string][][]*docs.Request
	messages  map[string]*gmail.Message
	queries   []string
	includes  []string
	failures  map[string]bool
	created   int
}

// NewServer starts a fake backend that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		documents: make(map[string]*docs.Document),
		files:     make(map[string]*drive.File),
		batches:   make(map[string][][]*docs.Request),
		messages:  make(map[string]*gmail.Message),
		failures:  make(map[string]bool),
	}
	s.Server = httptest.NewServer(s)
	t.Cleanup(s.Close)
	return s
}

// ClientOptions returns the options that route Docs, Drive and Gmail clients here
func (s *Server) ClientOptions() []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(s.URL + "/"),
		option.WithHTTPClient(s.Client()),
	}
}

// AddDocument stores doc and its Drive metadata. A nil file gets a
// document entry in the root folder.
func (s *Server) AddDocument(doc *docs.Document, file *drive.File) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file == nil {
		file = &drive.File{Name: doc.Title, Parents: []string{"root"}}
	}
	file.Id = doc.DocumentId
	if file.MimeType == "" {
		file.MimeType = documentMimeType
	}
	s.documents[doc.DocumentId] = doc
	s.files[file.Id] = file
}

// AddFile stores Drive metadata without a document body, such as a folder
func (s *Server) AddFile(file *drive.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Id] = file
}

// AddMessage stores a Gmail message. Searches return messages ordered by ID
// and ignore the query, which is recorded for Queries.
func (s *Server) AddMessage(msg *gmail.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.Id] = msg
}

// Queries returns the q values of Gmail message searches
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

// NotesMessage builds a full-format message with a plain text body
func NotesMessage(id, subject string, date time.Time, body string) *gmail.Message {
	return &gmail.Message{
		Id:           id,
		ThreadId:     "thread-" + id,
		InternalDate: date.UnixMilli(),
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: "Meeting notes <notes@example.com>"},
			},
			Parts: []*gmail.MessagePart{{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(body))},
			}},
		},
	}
}

// Fail makes the given failure point answer with an error
func (s *Server) Fail(point string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[point] = true
}

// Batches returns the batchUpdate requests received for a document
func (s *Server) Batches(id string) [][]*docs.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[id]
}

// Parents returns the current parent folders of a file
func (s *Server) Parents(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[id]; ok {
		return slices.Clone(f.Parents)
	}
	return nil
}

// Document returns a stored document
func (s *Server) Document(id string) *docs.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documents[id]
}

// IncludeTabs returns the includeTabsContent values of document reads
func (s *Server) IncludeTabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.includes)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/v1/documents":
		s.createDocument(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		s.batchUpdate(w, r, strings.TrimSuffix(strings.TrimPrefix(path, "/v1/documents/"), ":batchUpdate"))
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v1/documents/"):
		s.getDocument(w, r, strings.TrimPrefix(path, "/v1/documents/"))
	case r.Method == http.MethodGet && path == "/files":
		s.listFiles(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/files/"):
		s.getFile(w, strings.TrimPrefix(path, "/files/"))
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/files/"):
		s.updateFile(w, r, strings.TrimPrefix(path, "/files/"))
	case r.Method == http.MethodGet && path == messagesPath:
		s.listMessages(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, messagesPath+"/"):
		s.getMessage(w, strings.TrimPrefix(path, messagesPath+"/"))
	default:
		writeError(w, http.StatusNotFound, "unexpected request "+r.Method+" "+path)
	}
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	if s.failures[FailCreate] {
		writeError(w, http.StatusForbidden, "create denied")
		return
	}
	var doc docs.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.created++
	doc.DocumentId = fmt.Sprintf("doc%d", s.created)
	s.documents[doc.DocumentId] = &doc
	s.files[doc.DocumentId] = &drive.File{
		Id:       doc.DocumentId,
		Name:     doc.Title,
		MimeType: documentMimeType,
		Parents:  []string{"root"},
	}
	writeJSON(w, &doc)
}

func (s *Server) batchUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if s.failures[FailBatch] {
		writeError(w, http.StatusBadRequest, "invalid range")
		return
	}
	if _, ok := s.documents[id]; !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	var req docs.BatchUpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.batches[id] = append(s.batches[id], req.Requests)
	writeJSON(w, &docs.BatchUpdateDocumentResponse{DocumentId: id})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	s.includes = append(s.includes, r.URL.Query().Get("includeTabsContent"))
	doc, ok := s.documents[id]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, doc)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	if s.failures[FailList] {
		writeError(w, http.StatusForbidden, "listing denied")
		return
	}
	q := r.URL.Query().Get("q")
	var parent, mimeType string
	if m := parentPattern.FindStringSubmatch(q); m != nil {
		parent = m[1]
	}
	if m := mimeTypePattern.FindStringSubmatch(q); m != nil {
		mimeType = m[1]
	}

	list := &drive.FileList{Files: []*drive.File{}}
	for _, f := range s.files {
		if parent != "" && !slices.Contains(f.Parents, parent) {
			continue
		}
		if mimeType != "" && f.MimeType != mimeType {
			continue
		}
		list.Files = append(list.Files, f)
	}
	slices.SortFunc(list.Files, func(a, b *drive.File) int {
		return strings.Compare(a.Id, b.Id)
	})
	writeJSON(w, list)
}

func (s *Server) getFile(w http.ResponseWriter, id string) {
	f, ok := s.files[id]
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, f)
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request, id string) {
	if s.failures[FailMove] {
		writeError(w, http.StatusForbidden, "folder not writable")
		return
	}
	f, ok := s.files[id]
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	remove := strings.Split(r.URL.Query().Get("removeParents"), ",")
	var kept []string
	for _, parent := range f.Parents {
		if !slices.Contains(remove, parent) {
			kept = append(kept, parent)
		}
	}
	if add := r.URL.Query().Get("addParents"); add != "" {
		kept = append(kept, strings.Split(add, ",")...)
	}
	f.Parents = kept
	writeJSON(w, f)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	s.queries = append(s.queries, query.Get("q"))
	if s.failures[FailMessages] {
		writeError(w, http.StatusForbidden, "mailbox not readable")
		return
	}

	ids := slices.Sorted(maps.Keys(s.messages))

	// Page tokens are offsets into the sorted IDs.
	offset, _ := strconv.Atoi(query.Get("pageToken"))
	offset = min(offset, len(ids))
	end := len(ids)
	if n, err := strconv.Atoi(query.Get("maxResults")); err == nil && n > 0 {
		end = min(offset+n, len(ids))
	}

	res := &gmail.ListMessagesResponse{}
	for _, id := range ids[offset:end] {
		res.Messages = append(res.Messages, &gmail.Message{Id: id, ThreadId: s.messages[id].ThreadId})
	}
	if end < len(ids) {
		res.NextPageToken = strconv.Itoa(end)
	}
	writeJSON(w, res)
}

func (s *Server) getMessage(w http.ResponseWriter, id string) {
	msg, ok := s.messages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, msg)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": code, "message": message},
	})
}
