/*
Copyright 2026 The WebLogic Kubernetes Operator Contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command operator is the WebLogic Domain reconciliation engine's
// entrypoint: it wires the Domain Presence Cache, FiberGates, Watch
// Dispatcher, Make-Right Planner, Status Updater, and Retry/Backoff
// Controller onto a controller-runtime manager.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	k8sruntime "k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	healthz "sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/controller"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/k8sadapter"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/logging"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/metrics"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/retry"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/status"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/watch"
)

// flags bundles the CLI-configurable wiring for the operator binary.
type flags struct {
	namespace     string
	configFile    string
	metricsAddr   string
	healthAddr    string
	leaderElect   bool
	leaderElectID string
}

func main() {
	f := &flags{}

	root := &cobra.Command{
		Use:   "operator",
		Short: "Runs the WebLogic Domain reconciliation engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	root.Flags().StringVar(&f.namespace, "namespace", "", "restrict watches to a single namespace (empty watches all namespaces)")
	root.Flags().StringVar(&f.configFile, "config-file", "/etc/weblogic-operator/config/tuning.yaml", "path to the mainTuning YAML file")
	root.Flags().StringVar(&f.metricsAddr, "metrics-addr", ":8080", "bind address for the Prometheus metrics endpoint")
	root.Flags().StringVar(&f.healthAddr, "health-addr", ":8081", "bind address for the health/readiness endpoint")
	root.Flags().BoolVar(&f.leaderElect, "leader-elect", true, "enable leader election for controller manager high availability")
	root.Flags().StringVar(&f.leaderElectID, "leader-elect-id", "weblogic-operator-lock", "leader election lock resource name")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f *flags) error {
	loader, err := config.NewLoader(f.configFile, logging.New("info"))
	if err != nil {
		return fmt.Errorf("loading tuning config: %w", err)
	}
	logger := logging.New(loader.Current().LogLevel)

	scheme := k8sruntime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return fmt.Errorf("registering client-go scheme: %w", err)
	}
	if err := weblogicv1alpha1.AddToScheme(scheme); err != nil {
		return fmt.Errorf("registering weblogic scheme: %w", err)
	}

	mgrOpts := ctrl.Options{
		Scheme:                  scheme,
		Metrics:                 metricsserver.Options{BindAddress: f.metricsAddr},
		HealthProbeBindAddress:  f.healthAddr,
		LeaderElection:          f.leaderElect,
		LeaderElectionID:        f.leaderElectID,
		LeaderElectionNamespace: f.namespace,
	}
	if f.namespace != "" {
		mgrOpts.Cache.DefaultNamespaces = map[string]cache.Config{f.namespace: {}}
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), mgrOpts)
	if err != nil {
		return fmt.Errorf("creating controller manager: %w", err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("registering healthz check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("registering readyz check: %w", err)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	cache := presence.NewCache()
	executor := weblogicfiber.NewExecutor(logger)
	adapter := k8sadapter.New(mgr.GetClient(), logger)
	tuning := loader.Current

	runner := makeright.NewRunner(cache, executor, adapter, tuning, logger)

	statusUpdater := status.NewUpdater(executor, adapter, adapter, tuning, logger)
	runner.WithStatusUpdaterHooks(statusUpdater.Start, statusUpdater.Stop)

	retryController := retry.NewController(runner, adapter, tuning, logger)
	runner.WithThrowableHandler(retryController.OnThrowable)

	dispatcher := watch.NewDispatcher(cache, runner, adapter, adapter, nil, logger)

	reconciler := controller.NewDomainReconciler(mgr.GetClient(), cache, dispatcher, logger)
	if err := reconciler.SetupWithManager(mgr); err != nil {
		return fmt.Errorf("setting up domain controller: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	go func() {
		if err := loader.Watch(stop); err != nil {
			logger.Error(err, "tuning config watcher stopped")
		}
	}()

	logger.Info("starting manager", "namespace", f.namespace, "metricsAddr", f.metricsAddr, "healthAddr", f.healthAddr)
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("manager exited: %w", err)
	}
	return nil
}
