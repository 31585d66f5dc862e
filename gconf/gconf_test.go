package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest/assert"
	"github.com/iov-one/geodrop/store"
)

type myConfig struct {
	Number int64           `protobuf:"varint,1,opt,name=number,proto3" json:"number,omitempty"`
	Text   string          `protobuf:"bytes,2,opt,name=text,proto3" json:"text,omitempty"`
	Addr   geodrop.Address `protobuf:"bytes,3,opt,name=addr,proto3" json:"addr,omitempty"`
}

func (c *myConfig) Reset()         { *c = myConfig{} }
func (c *myConfig) String() string { return proto.CompactTextString(c) }
func (*myConfig) ProtoMessage()    {}

func (c *myConfig) Validate() error {
	if c.Number < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative number")
	}
	if len(c.Addr) != 0 {
		return c.Addr.Validate()
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	addr := geodrop.NewCondition("test", "conf", []byte("owner")).Address()

	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myConfig{Number: 852151421, Text: "foobar", Addr: addr},
		},
		"zero value": {
			Conf: &myConfig{},
		},
		"invalid address cannot be saved": {
			Conf:        &myConfig{Addr: geodrop.Address("too short")},
			WantSaveErr: errors.ErrInvalidInput,
		},
		"invalid number cannot be saved": {
			Conf:        &myConfig{Number: -1},
			WantSaveErr: errors.ErrInvalidModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				var got myConfig
				assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &got))
				return
			}

			got := myConfig{Text: "must be reset"}
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			if tc.Conf.Addr == nil {
				// protobuf does not distinguish nil and empty bytes
				got.Addr = nil
			}
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var conf myConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "drop", &conf))

	raw, err := db.Get(Key("drop"))
	assert.Nil(t, err)
	assert.Nil(t, raw)
}

func TestReadGenesis(t *testing.T) {
	var opts geodrop.Options
	assert.Nil(t, json.Unmarshal([]byte(`{
		"conf": {
			"mypkg": {"number": 7, "text": "seven"}
		}
	}`), &opts))

	var conf myConfig
	assert.Nil(t, ReadGenesis(opts, "mypkg", &conf))
	assert.Equal(t, int64(7), conf.Number)
	assert.Equal(t, "seven", conf.Text)

	assert.IsErr(t, errors.ErrNotFound, ReadGenesis(opts, "other", &conf))
	assert.IsErr(t, errors.ErrNotFound, ReadGenesis(geodrop.Options{}, "mypkg", &conf))
}
