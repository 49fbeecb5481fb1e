package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBatchQuery(t *testing.T) {
	q := BuildBatchQuery("INSERT INTO t (a, b)", "ON CONFLICT DO NOTHING", 2, 2)
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING", q)
}

func TestBuildBatchQuery_NoSuffix(t *testing.T) {
	q := BuildBatchQuery("INSERT INTO t (a)", "", 3, 1)
	assert.Equal(t, "INSERT INTO t (a) VALUES ($1), ($2), ($3)", q)
}
