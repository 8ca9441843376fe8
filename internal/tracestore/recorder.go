package tracestore

import (
	"encoding/json"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// maxNodeText bounds the node text stored with each fault.
const maxNodeText = 200

// Recorder buffers faults reported by a pattern.Matcher and a completion
// registry until Flush writes them out.
type Recorder struct {
	session    string
	rejections bool

	mu     sync.Mutex
	faults []Fault
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRejections also records conditions that merely rejected a node.
func WithRejections() RecorderOption {
	return func(r *Recorder) { r.rejections = true }
}

// WithSession sets the session id instead of generating one.
func WithSession(id string) RecorderOption {
	return func(r *Recorder) { r.session = id }
}

// NewRecorder returns an empty recorder with a fresh session id.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{session: uuid.NewString()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the id stamped on every recorded fault.
func (r *Recorder) Session() string { return r.session }

// ConditionRejected records a rejection when rejections are enabled.
func (r *Recorder) ConditionRejected(name string, n syntax.Node) {
	if !r.rejections {
		return
	}
	r.add(SourceCondition, name, n, "rejected")
}

// ConditionPanicked records a condition that failed while evaluating.
func (r *Recorder) ConditionPanicked(name string, n syntax.Node, err error) {
	r.add(SourceCondition, name, n, err.Error())
}

// HandlerFailed records a provider whose handler failed.
func (r *Recorder) HandlerFailed(provider string, n syntax.Node, err error) {
	r.add(SourceHandler, provider, n, err.Error())
}

// Pending returns a copy of the faults not yet flushed.
func (r *Recorder) Pending() []Fault {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Fault(nil), r.faults...)
}

// Flush writes all buffered faults in one transaction. The buffer is kept
// when the write fails.
func (r *Recorder) Flush(db *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.faults) == 0 {
		return 0, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&r.faults, 100).Error
	})
	if err != nil {
		return 0, fmt.Errorf("flushing %d faults: %w", len(r.faults), err)
	}
	n := len(r.faults)
	r.faults = nil
	return n, nil
}

func (r *Recorder) add(src Source, name string, n syntax.Node, msg string) {
	f := Fault{
		ID:        uuid.NewString(),
		SessionID: r.session,
		Source:    src,
		Name:      name,
		Message:   msg,
	}
	if n != nil {
		f.NodeKind = n.Kind().String()
		f.NodeText = truncate(n.Text(), maxNodeText)
		f.Detail = detail(n)
	}

	r.mu.Lock()
	r.faults = append(r.faults, f)
	r.mu.Unlock()
}

func detail(n syntax.Node) datatypes.JSON {
	var ancestors []string
	for a := range syntax.Ancestors(n) {
		ancestors = append(ancestors, a.Kind().String())
	}
	raw, err := json.Marshal(struct {
		Offset    int      `json:"offset"`
		Ancestors []string `json:"ancestors"`
	}{syntax.Offset(n), ancestors})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
