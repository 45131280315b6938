package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/helixbill/denialflow/internal/collab"
	"github.com/helixbill/denialflow/internal/config"
	"github.com/helixbill/denialflow/internal/engine"
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/service"
	"github.com/helixbill/denialflow/internal/storage"
	"github.com/helixbill/denialflow/internal/workflow"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/denialflow/denialflow.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initCollaborators builds the external system clients. Any collaborator
// without a configured URL falls back to its offline variant, which answers
// conservatively so affected denials escalate to manual review.
func initCollaborators() (service.AuthorizationClient, service.CodingReviewer, service.EligibilityClient, error) {
	var (
		authorizer  service.AuthorizationClient = collab.OfflineAuthorizationClient{}
		coding      service.CodingReviewer      = collab.OfflineCodingReviewer{}
		eligibility service.EligibilityClient   = collab.OfflineEligibilityClient{}
	)

	if url := viper.GetString("collaborators.authorization_url"); url != "" {
		client, err := collab.NewAuthorizationClient(url)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build authorization client: %w", err)
		}
		authorizer = client
	}
	if url := viper.GetString("collaborators.coding_url"); url != "" {
		client, err := collab.NewCodingReviewer(url)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build coding reviewer: %w", err)
		}
		coding = client
	}
	if url := viper.GetString("collaborators.eligibility_url"); url != "" {
		client, err := collab.NewEligibilityClient(url)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build eligibility client: %w", err)
		}
		eligibility = client
	}

	return authorizer, coding, eligibility, nil
}

// initOrchestrator wires storage, the knowledge base, the workflow registry,
// and the collaborators into a ready orchestrator.
func initOrchestrator(store service.Storage) (*engine.Orchestrator, error) {
	authorizer, coding, eligibility, err := initCollaborators()
	if err != nil {
		return nil, err
	}

	callTimeout := viper.GetDuration("workflows.call_timeout")
	if callTimeout <= 0 {
		callTimeout = workflow.DefaultCallTimeout
	}
	retryAttempts := viper.GetInt("workflows.retry_attempts")

	kb := knowledge.New()
	registry, err := workflow.NewRegistry(workflow.Config{
		Audit:       store,
		Records:     store,
		Authorizer:  authorizer,
		Coding:      coding,
		Eligibility: eligibility,
		CallTimeout: callTimeout,
		Retry: service.RetryOptions{
			MaxAttempts:  retryAttempts,
			InitialDelay: 200 * time.Millisecond,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow registry: %w", err)
	}

	return engine.New(store, kb, registry)
}
