package panel

import (
	"context"
	"fmt"
	"strconv"

	"domain-panel/internal/models"
	"domain-panel/internal/store"
)

// Identifier selects the record removed by a single-row delete, either by
// domain name or by id.
type Identifier struct {
	Domain string
	ID     uint
}

// ByDomain identifies every record with the given domain name.
func ByDomain(domain string) Identifier { return Identifier{Domain: domain} }

// ByID identifies the record with the given id.
func ByID(id uint) Identifier { return Identifier{ID: id} }

// ParseIdentifier reads a path value; byID selects the id interpretation.
func ParseIdentifier(value string, byID bool) (Identifier, error) {
	if !byID {
		if value == "" {
			return Identifier{}, fmt.Errorf("empty domain")
		}
		return ByDomain(value), nil
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return Identifier{}, fmt.Errorf("invalid id %q", value)
	}
	return ByID(uint(id)), nil
}

func (i Identifier) String() string {
	if i.Domain != "" {
		return i.Domain
	}
	return "#" + strconv.FormatUint(uint64(i.ID), 10)
}

// Remote is the persistence collaborator of the controller.
type Remote interface {
	ListAll(ctx context.Context) ([]models.DomainRecord, error)
	ReplaceAll(ctx context.Context, records []models.DomainRecord) error
	DeleteOne(ctx context.Context, id Identifier) error
}

// StoreRemote adapts a DomainStore to Remote.
type StoreRemote struct {
	Store *store.DomainStore
}

// NewStoreRemote creates a Remote over st.
func NewStoreRemote(st *store.DomainStore) *StoreRemote {
	return &StoreRemote{Store: st}
}

func (r *StoreRemote) ListAll(ctx context.Context) ([]models.DomainRecord, error) {
	return r.Store.ListAll(ctx)
}

func (r *StoreRemote) ReplaceAll(ctx context.Context, records []models.DomainRecord) error {
	return r.Store.ReplaceAll(ctx, records)
}

// DeleteOne removes by domain when set, otherwise by id. Deleting
// something that does not exist is not an error.
func (r *StoreRemote) DeleteOne(ctx context.Context, id Identifier) error {
	var err error
	switch {
	case id.Domain != "":
		_, err = r.Store.DeleteByDomain(ctx, id.Domain)
	case id.ID != 0:
		_, err = r.Store.DeleteByID(ctx, id.ID)
	default:
		err = fmt.Errorf("empty identifier")
	}
	return err
}
