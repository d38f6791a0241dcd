package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTableNameIsQuotedCanonicalForm(t *testing.T) {
	id := uuid.New()
	name := messageTableName(id)
	assert.Equal(t, `"`+id.String()+`"`, name)
}

func TestParseCanonicalUUIDAccepts(t *testing.T) {
	id := uuid.New()
	got, err := parseCanonicalUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseCanonicalUUIDRejectsNonCanonicalForms(t *testing.T) {
	id := uuid.New()

	_, err := parseCanonicalUUID("{" + id.String() + "}")
	assert.Error(t, err)

	_, err = parseCanonicalUUID("urn:uuid:" + id.String())
	assert.Error(t, err)

	_, err = parseCanonicalUUID("not-a-uuid")
	assert.Error(t, err)
}

func TestQuoteIdentifierEscapesQuotes(t *testing.T) {
	assert.Equal(t, `"normal"`, quoteIdentifier("normal"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
}
