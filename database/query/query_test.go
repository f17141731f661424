package query

import (
	"encoding/json"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/objectbase/database/accessor"
)

type address struct {
	City string `json:"city"`
}

type person struct {
	Name    string    `json:"name"`
	Age     int       `json:"age"`
	Score   float64   `json:"score"`
	Admin   bool      `json:"admin"`
	Born    time.Time `json:"born"`
	Code    string    `json:"code"`
	Address address   `json:"address"`
}

var testPerson = &person{
	Name:    "Alice",
	Age:     30,
	Score:   4.5,
	Admin:   true,
	Born:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	Code:    "42",
	Address: address{City: "Vienna"},
}

func testAccessors(t *testing.T) []accessor.Accessor {
	t.Helper()

	schema, err := accessor.NewSchema(&person{})
	require.NoError(t, err)
	structAcc, err := schema.Accessor(testPerson)
	require.NoError(t, err)

	data, err := json.Marshal(testPerson)
	require.NoError(t, err)

	return []accessor.Accessor{structAcc, accessor.NewJSONBytesAccessor(data)}
}

func testQuery(t *testing.T, accs []accessor.Accessor, shouldMatch bool, condition Condition) {
	t.Helper()

	q := New().Where(condition).MustBeValid()

	for _, acc := range accs {
		matched := q.Matches(acc)
		switch {
		case !matched && shouldMatch:
			t.Errorf("should match (%s): %s", acc.Type(), q.Print())
		case matched && !shouldMatch:
			t.Errorf("should not match (%s): %s", acc.Type(), q.Print())
		}
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	accs := testAccessors(t)

	// numbers
	testQuery(t, accs, true, Where("age", Equals, 30))
	testQuery(t, accs, true, Where("age", GreaterThan, uint8(29)))
	testQuery(t, accs, true, Where("age", GreaterThanOrEqual, 30))
	testQuery(t, accs, true, Where("age", LessThanOrEqual, 30.5))
	testQuery(t, accs, true, Where("age", Equals, "30"))
	testQuery(t, accs, false, Where("age", LessThan, 30))
	testQuery(t, accs, false, Where("age", NotEquals, 30))
	testQuery(t, accs, true, Where("score", GreaterThan, 4))
	testQuery(t, accs, true, Where("score", Equals, 4.5))
	testQuery(t, accs, false, Where("score", Equals, 4))
	testQuery(t, accs, true, Where("code", GreaterThan, 40))

	// strings
	testQuery(t, accs, true, Where("name", Equals, "Alice"))
	testQuery(t, accs, true, Where("name", NotEquals, "Bob"))
	testQuery(t, accs, true, Where("name", Contains, "lic"))
	testQuery(t, accs, true, Where("name", StartsWith, "Al"))
	testQuery(t, accs, true, Where("name", EndsWith, "ce"))
	testQuery(t, accs, true, Where("name", GreaterThan, "Aaron"))
	testQuery(t, accs, false, Where("name", Equals, "alice"))
	testQuery(t, accs, false, Where("name", Equals, 30))
	testQuery(t, accs, true, Where("address.city", Equals, "Vienna"))

	// bools
	testQuery(t, accs, true, Where("admin", Equals, true))
	testQuery(t, accs, true, Where("admin", NotEquals, false))
	testQuery(t, accs, true, Where("admin", Equals, "true"))
	testQuery(t, accs, false, Where("admin", Equals, false))

	// dates
	testQuery(t, accs, true, Where("born", GreaterThan, time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)))
	testQuery(t, accs, true, Where("born", Equals, "1990-05-01T00:00:00Z"))
	testQuery(t, accs, false, Where("born", LessThan, &testPerson.Born))

	// lists
	testQuery(t, accs, true, Where("name", In, []string{"Bob", "Alice"}))
	testQuery(t, accs, true, Where("age", In, []int{1, 30}))
	testQuery(t, accs, true, Where("age", In, "1, 30"))
	testQuery(t, accs, false, Where("name", In, []interface{}{"Bob", 1}))

	// regex
	testQuery(t, accs, true, Where("name", Matches, "^A.*e$"))
	testQuery(t, accs, true, Where("name", Matches, "lic"))
	testQuery(t, accs, true, Where("name", Matches, regexp.MustCompile("(?i)ALICE")))
	testQuery(t, accs, false, Where("age", Matches, "30"))

	// missing attributes never match a leaf
	testQuery(t, accs, true, Where("name", Exists, nil))
	testQuery(t, accs, false, Where("missing", Exists, nil))
	testQuery(t, accs, false, Where("missing", NotEquals, "x"))
	testQuery(t, accs, false, Where("missing", NotEquals, 1))
	testQuery(t, accs, false, Not(Where("missing", Equals, "x")))
	testQuery(t, accs, false, Not(Not(Where("missing", Equals, "x"))))
	testQuery(t, accs, false, Not(Where("missing", GreaterThan, 100)))
	testQuery(t, accs, false, Not(Where("address.zip", In, []int{1})))
	testQuery(t, accs, true, Not(Where("missing", Exists, nil)))
	testQuery(t, accs, false, Or(Not(Where("missing", Equals, 1)), Where("name", Equals, "Bob")))
	testQuery(t, accs, true, Or(Not(Where("missing", Equals, 1)), Where("name", Equals, "Alice")))
	testQuery(t, accs, true, Not(And(Where("missing", Equals, 1), Where("name", Equals, "Bob"))))
	testQuery(t, accs, false, Not(And(Where("missing", Equals, 1), Where("name", Equals, "Alice"))))

	// combinations
	testQuery(t, accs, true, And(
		Where("age", GreaterThan, 20),
		Or(
			Where("name", StartsWith, "X"),
			Where("admin", Equals, true),
		),
	))
	testQuery(t, accs, false, And(
		Where("age", GreaterThan, 20),
		Not(Where("admin", Equals, true)),
	))
	testQuery(t, accs, false, Or())
	testQuery(t, accs, true, And())
}

func TestQueryWithoutCondition(t *testing.T) {
	t.Parallel()

	q := New()
	assert.False(t, q.IsChecked())
	_, err := q.Check()
	require.NoError(t, err)
	assert.True(t, q.IsChecked())

	for _, acc := range testAccessors(t) {
		assert.True(t, q.Matches(acc))
	}
	assert.Equal(t, "query", q.Print())
}

func TestInvalidPredicates(t *testing.T) {
	t.Parallel()

	invalid := []Condition{
		Where("", Equals, 1),
		Where("name", Contains, 1),
		Where("admin", GreaterThan, true),
		Where("born", Contains, time.Now()),
		Where("name", Matches, "("),
		Where("name", Matches, 1),
		Where("age", Equals, nil),
		Where("age", Equals, struct{}{}),
		Where("age", In, 5),
		Where("name", In, []interface{}{struct{}{}}),
		And(Where("age", Equals, 1), Where("name", StartsWith, 2)),
		Not(Or(Where("name", Equals, []string{"x"}))),
	}

	for _, cond := range invalid {
		_, err := New().Where(cond).Check()
		var pe *PredicateError
		assert.ErrorAs(t, err, &pe, cond.string())
	}

	assert.Panics(t, func() {
		New().Where(Where("age", Contains, 1)).MustBeValid()
	})

	_, err := New().Limit(-1).Check()
	assert.Error(t, err)
	_, err = New().Offset(-1).Check()
	assert.Error(t, err)
}

func TestQueryReset(t *testing.T) {
	t.Parallel()

	q := New().Where(Where("age", Equals, 30)).MustBeValid()
	assert.True(t, q.IsChecked())

	q.Where(Where("age", Contains, 30))
	assert.False(t, q.IsChecked())
	_, err := q.Check()
	assert.Error(t, err)
}

func TestQueryCopy(t *testing.T) {
	t.Parallel()

	shared := New().Where(Where("age", Equals, 30)).Limit(1)
	checked, err := shared.Copy().Check()
	require.NoError(t, err)
	assert.True(t, checked.IsChecked())
	assert.False(t, shared.IsChecked())
	assert.Equal(t, shared.Print(), checked.Print())

	checked.Offset(2)
	assert.Equal(t, "query where age == 30 limit 1", shared.Print())
}

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, offset, total int
		start, end           int
	}{
		{0, 0, 10, 0, 10},
		{3, 0, 10, 0, 3},
		{3, 8, 10, 8, 10},
		{0, 4, 10, 4, 10},
		{5, 20, 10, 10, 10},
		{5, 0, 0, 0, 0},
		{math.MaxInt, 1, 3, 1, 3},
		{math.MaxInt, math.MaxInt, 3, 3, 3},
		{2, 1, math.MaxInt, 1, 3},
	}

	for _, tt := range tests {
		start, end := New().Limit(tt.limit).Offset(tt.offset).Window(tt.total)
		assert.Equal(t, tt.start, start, "start for %+v", tt)
		assert.Equal(t, tt.end, end, "end for %+v", tt)
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	q := New().Where(And(
		Where("age", GreaterThan, 1),
		Where("name", Equals, "x"),
	)).Limit(2).Offset(1)
	assert.Equal(t, `query where age > 1 and name == "x" limit 2 offset 1`, q.Print())

	q = New().Where(Not(Where("score", LessThan, 2.5)))
	assert.Equal(t, `query where not (score < 2.5)`, q.Print())
}
