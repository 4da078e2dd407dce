package implementation

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, 12.5, NormalizeValue(pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}))
	assert.Nil(t, NormalizeValue(pgtype.Numeric{}))
	assert.Equal(t, id.String(), NormalizeValue([16]byte(id)))
	assert.Equal(t, "abc", NormalizeValue([]byte("abc")))
	assert.Equal(t, int64(7), NormalizeValue(int64(7)))
}
