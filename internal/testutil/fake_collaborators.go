package testutil

import (
	"context"
	"sync"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// TriggerCall records one call into a FakeTrigger.
type TriggerCall struct {
	Namespace string
	DomainUID string
	Live      *weblogicv1alpha1.Domain
	Opts      makeright.RunOptions
}

// FakeTrigger implements watch.MakeRightTrigger and retry.Trigger: it
// records every call instead of running a real plan, so dispatcher and
// retry-controller tests can assert on what would have been triggered.
type FakeTrigger struct {
	mu    sync.Mutex
	Calls []TriggerCall
}

// NewFakeTrigger builds an empty FakeTrigger.
func NewFakeTrigger() *FakeTrigger { return &FakeTrigger{} }

func (t *FakeTrigger) Trigger(ctx context.Context, namespace, domainUID string, live *weblogicv1alpha1.Domain, opts makeright.RunOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = append(t.Calls, TriggerCall{Namespace: namespace, DomainUID: domainUID, Live: live, Opts: opts})
}

// Len returns the number of recorded calls.
func (t *FakeTrigger) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Calls)
}

// Last returns the most recent call, or the zero value if none were made.
func (t *FakeTrigger) Last() TriggerCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.Calls) == 0 {
		return TriggerCall{}
	}
	return t.Calls[len(t.Calls)-1]
}

// FakeFailureReporter implements watch.FailureReporter and
// retry.StatusFailureReporter.
type FakeFailureReporter struct {
	mu                     sync.Mutex
	IntrospectorFailures   []string
	ProgressingReports     int
	MakeRightFailures      []error
	ReportErr              error
}

// NewFakeFailureReporter builds an empty FakeFailureReporter.
func NewFakeFailureReporter() *FakeFailureReporter { return &FakeFailureReporter{} }

func (r *FakeFailureReporter) ReportIntrospectorFailure(ctx context.Context, namespace, domainUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntrospectorFailures = append(r.IntrospectorFailures, message)
	return r.ReportErr
}

func (r *FakeFailureReporter) ReportProgressing(ctx context.Context, namespace, domainUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProgressingReports++
	return r.ReportErr
}

func (r *FakeFailureReporter) ReportMakeRightFailure(ctx context.Context, namespace, domainUID string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MakeRightFailures = append(r.MakeRightFailures, err)
	return r.ReportErr
}

// FakeScriptConfigMapRecreator implements watch.ScriptConfigMapRecreator.
type FakeScriptConfigMapRecreator struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

// NewFakeScriptConfigMapRecreator builds an empty FakeScriptConfigMapRecreator.
func NewFakeScriptConfigMapRecreator() *FakeScriptConfigMapRecreator {
	return &FakeScriptConfigMapRecreator{}
}

func (r *FakeScriptConfigMapRecreator) RecreateScriptConfigMap(ctx context.Context, namespace, domainUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.Err
}

// FakeStatusReadWriter implements status.Reader and status.Writer over a
// fixed pair of slices, recording every write it receives.
type FakeStatusReadWriter struct {
	mu sync.Mutex

	Servers  []weblogicv1alpha1.ServerStatus
	Clusters []weblogicv1alpha1.ClusterStatus
	ReadErr  error
	WriteErr error

	Writes int
}

// NewFakeStatusReadWriter builds a FakeStatusReadWriter returning empty status.
func NewFakeStatusReadWriter() *FakeStatusReadWriter { return &FakeStatusReadWriter{} }

func (s *FakeStatusReadWriter) ReadServerStatuses(ctx context.Context, info *presence.DomainPresenceInfo) ([]weblogicv1alpha1.ServerStatus, []weblogicv1alpha1.ClusterStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Servers, s.Clusters, s.ReadErr
}

func (s *FakeStatusReadWriter) UpdateDomainStatus(ctx context.Context, info *presence.DomainPresenceInfo, servers []weblogicv1alpha1.ServerStatus, clusters []weblogicv1alpha1.ClusterStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	s.Servers = servers
	s.Clusters = clusters
	return s.WriteErr
}

// WriteCount returns how many times UpdateDomainStatus was called.
func (s *FakeStatusReadWriter) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Writes
}
