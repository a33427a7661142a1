package repository_test

import (
	"errors"
	"fmt"
	"shutter/shared/repository"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPqViolations(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	fk := fmt.Errorf("delete: %w", &pq.Error{Code: "23503"})

	assert.True(t, repository.IsUniqueViolation(unique))
	assert.False(t, repository.IsFkViolation(unique))
	assert.True(t, repository.IsFkViolation(fk))
	assert.False(t, repository.IsUniqueViolation(errors.New("plain")))
}
