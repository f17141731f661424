package database

import (
	"fmt"

	"github.com/safing/objectbase/database/accessor"
	"github.com/safing/objectbase/database/query"
	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
	"github.com/safing/objectbase/utils"
)

// RawQuery returns the serialized records of a class that match the query,
// without decoding them into models. The class must use the JSON format.
func RawQuery(class string, q *query.Query) ([]*record.Record, error) {
	ctrl, err := getController(class)
	if err != nil {
		return nil, err
	}
	if ctrl.format() != dsd.JSON {
		return nil, fmt.Errorf("%w: raw queries need json records, %s uses %s", dsd.ErrIncompatibleFormat, class, ctrl.format())
	}

	q, err = q.Copy().Check()
	if err != nil {
		return nil, err
	}
	queries(class).Inc()

	var results []*record.Record
	for _, r := range ctrl.scan() {
		format, payload, err := dsd.Unwrap(r.Data)
		if err == nil && format != dsd.JSON {
			err = dsd.ErrIncompatibleFormat
		}
		if err != nil {
			log.Warningf("database: skipping raw record %s %s: %s", r.Key, utils.PreviewBytes(r.Data), err)
			decodeFailures(class).Inc()
			continue
		}

		if q.Matches(accessor.NewJSONBytesAccessor(payload)) {
			results = append(results, r)
		}
	}

	from, to := q.Window(len(results))
	return results[from:to], nil
}
