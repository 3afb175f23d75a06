// Package retry implements the Retry/Backoff Controller: the reaction to
// an uncaught make-right fiber failure, per spec §4.8.
package retry

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// Trigger is the narrow slice of *makeright.Runner the controller needs to
// schedule a retry.
type Trigger interface {
	Trigger(ctx context.Context, namespace, domainUID string, live *weblogicv1alpha1.Domain, opts makeright.RunOptions)
}

// StatusFailureReporter records the failure onto the Domain's status
// subresource, step 1 of spec §4.8's reaction.
type StatusFailureReporter interface {
	ReportMakeRightFailure(ctx context.Context, namespace, domainUID string, err error) error
}

// Controller implements makeright.ThrowableHandler.
type Controller struct {
	trigger  Trigger
	reporter StatusFailureReporter
	tuning   func() config.Tuning
	logger   logr.Logger
}

// NewController builds a Controller. Wire its OnThrowable method to
// makeright.Runner.WithThrowableHandler.
func NewController(trigger Trigger, reporter StatusFailureReporter, tuning func() config.Tuning, logger logr.Logger) *Controller {
	return &Controller{trigger: trigger, reporter: reporter, tuning: tuning, logger: logger}
}

// OnThrowable reports the failure, then schedules a retry after
// failureRetrySeconds if info's failure count has not exceeded
// maxFailureRetries; beyond that, or for a validation failure, it logs and
// stops until a spec change produces a fresh Trigger call through the
// normal watch path. Every
// retry it schedules runs with explicitRecheck=true and preserves the
// deleting flag info carried at the moment of failure.
func (c *Controller) OnThrowable(namespace, domainUID string, info *presence.DomainPresenceInfo, opts makeright.RunOptions, err error) {
	ctx := context.Background()
	if c.reporter != nil {
		if rerr := c.reporter.ReportMakeRightFailure(ctx, namespace, domainUID, err); rerr != nil {
			c.logger.Error(rerr, "failed to report make-right failure on domain status", "namespace", namespace, "domainUID", domainUID)
		}
	}

	if weblogicerrors.IsValidation(err) {
		c.logger.Error(err, "make-right validation failed, waiting for a spec change", "namespace", namespace, "domainUID", domainUID)
		return
	}

	tuning := c.tuning()
	failureCount := info.FailureCount()
	if failureCount > tuning.DomainPresenceFailureRetryMaxCount {
		c.logger.Error(err, "make-right retries exhausted, waiting for a spec change", "namespace", namespace, "domainUID", domainUID, "failureCount", failureCount)
		return
	}

	deleting := info.Deleting()
	retryOpts := makeright.RunOptions{
		ExplicitRecheck: true,
		ForDeletion:     deleting,
	}
	time.AfterFunc(tuning.DomainPresenceFailureRetrySeconds, func() {
		c.trigger.Trigger(context.Background(), namespace, domainUID, info.Domain(), retryOpts)
	})
}
