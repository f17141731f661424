package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/safing/objectbase/config"
	"github.com/safing/objectbase/database/accessor"
	"github.com/safing/objectbase/database/query"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
)

func inspect(cfg *config.Config, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	where := flags.String("where", "", "filter expression, eg. \"age > 30\"")
	limit := flags.Int("limit", 0, "maximum number of records")
	offset := flags.Int("offset", 0, "number of matching records to skip")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("%w: inspect needs exactly one class name", errUsage)
	}
	class := flags.Arg(0)

	q := query.New().Limit(*limit).Offset(*offset)
	if *where != "" {
		cond, err := query.ParseWhere(*where)
		if err != nil {
			return err
		}
		q.Where(cond)
	}
	if _, err := q.Check(); err != nil {
		return err
	}

	cc := cfg.Class(class)
	location := cc.Path
	if location == "" {
		location = cfg.DefaultDatabasePath(class, cc.Storage)
	}
	if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
		log.Infof("objectbase: no %s database of %s at %s", cc.Storage, class, location)
		return nil
	}

	// never change the database of a possibly running application
	db, err := storage.StartDatabase(class, cc.Storage, location, &storage.Options{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to open %s database at %s: %w", cc.Storage, location, err)
	}
	defer func() {
		if err := db.Shutdown(); err != nil {
			log.Warningf("objectbase: failed to close database: %s", err)
		}
	}()

	records, err := db.Scan()
	if err != nil {
		return err
	}

	matched := make([][]byte, 0, len(records))
	for _, r := range records {
		data, err := recordJSON(r.Data)
		if err != nil {
			log.Warningf("objectbase: skipping record %s: %s", r.Key, err)
			continue
		}
		if q.Matches(accessor.NewJSONBytesAccessor(data)) {
			matched = append(matched, data)
		}
	}

	from, to := q.Window(len(matched))
	for _, data := range matched[from:to] {
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return err
		}
	}
	log.Infof("objectbase: %d of %d records of %s matched", len(matched), len(records), class)
	return nil
}

// recordJSON returns the record payload as json, converting it if it was
// stored in another format.
func recordJSON(blob []byte) ([]byte, error) {
	format, payload, err := dsd.Unwrap(blob)
	if err != nil {
		return nil, err
	}
	if format == dsd.JSON {
		return payload, nil
	}

	var v interface{}
	if _, err := dsd.Load(blob, &v); err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue(v))
}

// jsonValue converts maps with non-string keys, as produced by the cbor and
// msgpack decoders, so that they can be encoded as json.
func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, val := range v {
			m[fmt.Sprint(key)] = jsonValue(val)
		}
		return m
	case map[string]interface{}:
		for key, val := range v {
			v[key] = jsonValue(val)
		}
		return v
	case []interface{}:
		for i, val := range v {
			v[i] = jsonValue(val)
		}
		return v
	default:
		return v
	}
}
