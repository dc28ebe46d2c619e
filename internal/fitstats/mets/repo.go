package mets

import (
	"context"
)

//go:generate mockgen -source=$GOFILE -destination=mets_mocks_test.go -package=mets_test

// metsRepo is the MET reference source. Documents that cannot be decoded at all
// are not returned, only counted in undecodable.
type metsRepo interface {
	ListActivityMets(ctx context.Context) (_ []ActivityMets, undecodable int, err error)
}

const (
	MongoCollection = "activity_mets_new"
	PsqlTable       = "activity_mets"
)
