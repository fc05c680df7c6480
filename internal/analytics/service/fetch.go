package service

import (
	"context"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// dataset is everything one computation reads. Aggregators only consume it.
type dataset struct {
	transactions   []domain.Transaction
	refs           map[uuid.UUID]domain.TransactionRef
	appointments   []domain.Appointment
	documents      []domain.Document
	properties     []domain.Property
	propertyOffers []domain.PropertyOffer
	offers         []domain.Offer
	conditions     []domain.Condition
	stageChanges   []domain.TimelineEntry
	clients        map[uuid.UUID]domain.Client
}

// fetch loads the dataset in two concurrent waves. The second wave depends
// on transaction IDs from the first.
func (s *Service) fetch(ctx context.Context, scope domain.Scope) (dataset, error) {
	var (
		data         dataset
		refs         []domain.TransactionRef
		appointments []domain.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.transactions, err = s.store.ListTransactions(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		refs, err = s.store.ListTransactionRefs(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = s.store.ListAppointments(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.DatabaseError("analytics.fetch.scope", err)
		return dataset{}, err
	}

	data.refs = make(map[uuid.UUID]domain.TransactionRef, len(refs))
	for _, ref := range refs {
		data.refs[ref.ID] = ref
	}
	data.appointments = intersectAppointments(appointments, data.refs, scope.Narrowed())

	var allIDs, buyIDs, sellIDs, activeIDs []uuid.UUID
	for _, tx := range data.transactions {
		allIDs = append(allIDs, tx.ID)
		switch tx.Side {
		case domain.SideBuy:
			buyIDs = append(buyIDs, tx.ID)
		case domain.SideSell:
			sellIDs = append(sellIDs, tx.ID)
		}
		if tx.Status == domain.TransactionActive {
			activeIDs = append(activeIDs, tx.ID)
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	if len(allIDs) > 0 {
		g.Go(func() error {
			var err error
			data.documents, err = s.store.ListDocuments(gctx, allIDs)
			return err
		})
		g.Go(func() error {
			var err error
			data.conditions, err = s.store.ListConditions(gctx, allIDs)
			return err
		})
	}
	if len(buyIDs) > 0 {
		g.Go(func() error {
			var err error
			data.properties, err = s.store.ListProperties(gctx, buyIDs)
			return err
		})
		g.Go(func() error {
			var err error
			data.propertyOffers, err = s.store.ListPropertyOffers(gctx, buyIDs)
			return err
		})
	}
	if len(sellIDs) > 0 {
		g.Go(func() error {
			var err error
			data.offers, err = s.store.ListOffers(gctx, sellIDs)
			return err
		})
	}
	if len(activeIDs) > 0 {
		g.Go(func() error {
			var err error
			data.stageChanges, err = s.store.ListStageChanges(gctx, activeIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.DatabaseError("analytics.fetch.collections", err)
		return dataset{}, err
	}

	data.clients = s.lookupClients(ctx, data.transactions)
	return data, nil
}

// intersectAppointments keeps only appointments attached to a transaction in
// the membership set when a side or client filter is active.
func intersectAppointments(appointments []domain.Appointment, refs map[uuid.UUID]domain.TransactionRef, narrowed bool) []domain.Appointment {
	if !narrowed {
		return appointments
	}
	kept := make([]domain.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		id, ok := appt.TransactionID.Get()
		if !ok {
			continue
		}
		if _, member := refs[id]; member {
			kept = append(kept, appt)
		}
	}
	return kept
}

// lookupClients batch-loads names for the clients of active transactions.
// A failed lookup degrades to ID labels instead of failing the computation.
func (s *Service) lookupClients(ctx context.Context, transactions []domain.Transaction) map[uuid.UUID]domain.Client {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, tx := range transactions {
		if tx.Status != domain.TransactionActive {
			continue
		}
		if _, dup := seen[tx.ClientID]; dup {
			continue
		}
		seen[tx.ClientID] = struct{}{}
		ids = append(ids, tx.ClientID)
	}

	clients := make(map[uuid.UUID]domain.Client, len(ids))
	if len(ids) == 0 {
		return clients
	}

	found, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		s.log.WithContext(ctx).Warn("client name lookup failed, continuing with id labels", "error", err, "clients", len(ids))
		return clients
	}
	for _, client := range found {
		clients[client.ID] = client
	}
	return clients
}
