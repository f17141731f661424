package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/objectbase/config"
	"github.com/safing/objectbase/database/query"
	"github.com/safing/objectbase/formats/dsd"
)

type valueModel struct {
	ID string
}

func (v valueModel) ObjectID() string { return v.ID }
func (v valueModel) SetObjectID(string) {}

type device struct {
	Base
	Serial string `json:"serial"`
}

var devicePath string

func (d *device) DatabasePath() string {
	return devicePath
}

func TestRegister(t *testing.T) {
	_, err := Register[*person]("register_test", nil)
	require.NoError(t, err)

	_, err = Register[*person]("register_test", nil)
	assert.ErrorIs(t, err, ErrClassRegistered)

	_, err = Register[*person]("no/slashes", nil)
	assert.ErrorIs(t, err, ErrInvalidClassName)
	_, err = Register[*person]("", nil)
	assert.ErrorIs(t, err, ErrInvalidClassName)

	_, err = Register[valueModel]("value_model", nil)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = Register[*person]("bad_storage", &ClassOptions{Storage: "papyrus"})
	assert.ErrorIs(t, err, ErrInvalidStorageType)

	_, err = Register[*person]("bad_format", &ClassOptions{Format: dsd.SerializationFormat('X')})
	assert.ErrorIs(t, err, dsd.ErrUnknownFormat)

	assert.Panics(t, func() {
		MustRegister[*person]("register_test", nil)
	})
}

func TestDatabasePath(t *testing.T) {
	// default
	people := registerPeople(t, nil)
	assert.Equal(t,
		filepath.Join(testConfig.DataRoot, "databases", people.Name()+".filetable"),
		people.DatabasePath(),
	)

	// options
	optsPath := filepath.Join(t.TempDir(), "people.db")
	people = registerPeople(t, &ClassOptions{DatabasePath: optsPath})
	assert.Equal(t, optsPath, people.DatabasePath())

	// config
	configPath := filepath.Join(t.TempDir(), "configured.db")
	testConfig.Classes = map[string]config.ClassConfig{
		"configured_people": {Path: configPath},
	}
	defer func() {
		testConfig.Classes = nil
	}()
	configured, err := Register[*person]("configured_people", nil)
	require.NoError(t, err)
	assert.Equal(t, configPath, configured.DatabasePath())
	require.NoError(t, configured.New(&person{Name: "configured"}).Archive())
	assert.FileExists(t, configPath)

	// model
	devicePath = filepath.Join(t.TempDir(), "nested", "devices.table")
	devices, err := Register[*device]("devices", &ClassOptions{DatabasePath: optsPath})
	require.NoError(t, err)
	assert.Equal(t, devicePath, devices.DatabasePath())
	require.NoError(t, devices.New(&device{Serial: "X1"}).Archive())
	assert.FileExists(t, devicePath)
	assert.Len(t, devices.AllObjects(), 1)
}

func TestStorageTypes(t *testing.T) {
	for _, storageType := range []string{"filetable", "bbolt", "badger"} {
		for _, format := range []dsd.SerializationFormat{dsd.JSON, dsd.CBOR, dsd.MsgPack} {
			people := registerPeople(t, &ClassOptions{
				DatabasePath: filepath.Join(t.TempDir(), "people"),
				Storage:      storageType,
				Format:       format,
			})
			// close before the temp dir is removed
			t.Cleanup(func() {
				assert.NoError(t, people.ctrl.shutdownDisk())
			})

			for i := 0; i < 5; i++ {
				o := people.New(&person{Name: "name", Age: i * 10})
				o.SetInMemoryOnly(i == 4)
				require.NoError(t, o.Archive(), storageType)
			}

			results, err := people.ObjectsWhere("age >= %d", 20)
			require.NoError(t, err, storageType)
			assert.Len(t, results, 3, "%s/%s", storageType, format)
		}
	}
}

func TestRawQuery(t *testing.T) {
	people := registerPeople(t, nil)

	for _, name := range []string{"Alice", "Bob", "Alina"} {
		require.NoError(t, people.New(&person{Name: name, Age: len(name)}).Archive())
	}

	records, err := RawQuery(people.Name(), query.New().Where(query.Where("name", query.StartsWith, "Al")))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, people.Name(), r.Key.Class)
		format, _, err := dsd.Unwrap(r.Data)
		require.NoError(t, err)
		assert.Equal(t, dsd.JSON, format)
	}

	records, err = RawQuery(people.Name(), query.New().Limit(1))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = RawQuery("unknown_class", query.New())
	assert.ErrorIs(t, err, ErrClassNotRegistered)

	_, err = RawQuery(people.Name(), query.New().Where(query.Where("name", query.Contains, 1)))
	var pe *query.PredicateError
	assert.ErrorAs(t, err, &pe)

	cborPeople := registerPeople(t, &ClassOptions{Format: dsd.CBOR})
	_, err = RawQuery(cborPeople.Name(), query.New())
	assert.ErrorIs(t, err, dsd.ErrIncompatibleFormat)
}

func TestWriteMetrics(t *testing.T) {
	people := registerPeople(t, nil)
	require.NoError(t, people.New(&person{Name: "counted"}).Archive())
	_ = people.AllObjects()

	buf := &bytes.Buffer{}
	WriteMetrics(buf)
	out := buf.String()
	assert.Contains(t, out, `objectbase_archives_total{class="`+people.Name()+`",backend="disk"} 1`)
	assert.Contains(t, out, `objectbase_queries_total{class="`+people.Name()+`"} 1`)
	assert.Contains(t, out, `objectbase_query_duration_seconds_bucket{class="`+people.Name()+`"`)
}
