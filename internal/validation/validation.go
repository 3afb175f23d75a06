// Package validation implements the Server-Policy Evaluator's structural
// edge-case checks: server names and dynamic-cluster index bounds.
package validation

import (
	"fmt"
	"regexp"
	"strconv"

	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
)

var serverNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateServerName checks that name is a valid DNS-1123 label (a leading
// digit is allowed) as Kubernetes requires for the resources derived from it.
func ValidateServerName(name string) error {
	if name == "" {
		return &weblogicerrors.ValidationError{Reason: "server name must not be empty"}
	}
	if len(name) > 63 {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("server name %q exceeds 63 characters", name)}
	}
	if !serverNamePattern.MatchString(name) {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("server name %q is not a valid DNS label", name)}
	}
	return nil
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// ValidateDynamicClusterIndex checks that serverName's trailing numeric
// suffix (after prefix) satisfies 1 <= i <= maxDynamicClusterSize.
func ValidateDynamicClusterIndex(serverName, prefix string, maxDynamicClusterSize int) error {
	if len(serverName) <= len(prefix) || serverName[:len(prefix)] != prefix {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("server name %q does not match dynamic cluster prefix %q", serverName, prefix)}
	}
	suffix := serverName[len(prefix):]
	if !trailingDigits.MatchString(suffix) {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("server name %q has no numeric dynamic cluster index", serverName)}
	}
	i, err := strconv.Atoi(suffix)
	if err != nil {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("server name %q has an unparseable dynamic cluster index", serverName)}
	}
	if i < 1 || i > maxDynamicClusterSize {
		return &weblogicerrors.ValidationError{Reason: fmt.Sprintf("dynamic cluster server index %d for %q is outside [1, %d]", i, serverName, maxDynamicClusterSize)}
	}
	return nil
}
