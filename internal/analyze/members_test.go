package analyze

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Audit struct {
	CreatedBy string
	Touched   int
}

type account struct {
	Region string
}

type Customer struct {
	*Audit
	account

	ID      uuid.UUID `field:"customer_id"`
	Name    string
	Tags    []string
	secret  string
	comment string
	_       int
}

func (c Customer) Secret() string { return c.secret }

func (c *Customer) GetDisplayName() string { return "Customer " + c.Name }

func (c *Customer) SetComment(s string) { c.comment = s }

func (c Customer) Comment() string { return c.comment }

func (c *Customer) SetNotes(n int) {}

func (c Customer) Len() int { return len(c.Name) }

func TestMembers(t *testing.T) {
	members := New().Members(reflect.TypeFor[*Customer]())

	byName := map[string]Member{}
	for _, m := range members {
		byName[m.Name] = m
	}

	assert.Equal(t,
		[]string{"CreatedBy", "Touched", "Region", "ID", "Name", "Tags", "Comment", "DisplayName", "Secret", "Notes"},
		Names(members))

	assert.NotContains(t, byName, "Audit")
	assert.NotContains(t, byName, "Len")
	assert.NotContains(t, byName, "secret")

	id := byName["ID"]
	assert.Equal(t, MemberField, id.Kind)
	assert.True(t, id.HasTag("field"))
	assert.Equal(t, reflect.TypeFor[uuid.UUID](), id.Type)

	secret := byName["Secret"]
	assert.Equal(t, MemberProperty, secret.Kind)
	assert.True(t, secret.CanRead)
	assert.False(t, secret.CanWrite)

	comment := byName["Comment"]
	assert.True(t, comment.CanRead)
	assert.True(t, comment.CanWrite)

	notes := byName["Notes"]
	assert.False(t, notes.CanRead)
	assert.True(t, notes.CanWrite)
	assert.Equal(t, reflect.TypeFor[int](), notes.Type)

	assert.Len(t, New().Readable(reflect.TypeFor[Customer]()), 9)
	assert.Len(t, New().Writable(reflect.TypeFor[Customer]()), 8)
}

func TestMembersNonStruct(t *testing.T) {
	assert.Empty(t, Members(reflect.TypeFor[int]()))
	assert.Empty(t, Members(reflect.TypeFor[map[string]any]()))
	assert.Empty(t, Members(nil))
}

func TestMembersCached(t *testing.T) {
	in := New()
	first := in.Members(reflect.TypeFor[Customer]())
	second := in.Members(reflect.TypeFor[*Customer]())

	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}

func TestMembersConcurrent(t *testing.T) {
	in := New()
	types := []reflect.Type{
		reflect.TypeFor[Customer](),
		reflect.TypeFor[Audit](),
		reflect.TypeFor[time.Time](),
	}

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in.Members(types[i%len(types)])
		}()
	}
	wg.Wait()

	m, ok := in.Lookup(reflect.TypeFor[Customer](), "Name")
	require.True(t, ok)
	assert.Equal(t, "Name", m.Name)
}

func TestMemberGetSet(t *testing.T) {
	c := &Customer{Name: "Ann", secret: "s3"}
	v := reflect.ValueOf(c)

	name, _ := Lookup(reflect.TypeFor[Customer](), "Name")
	got, ok := name.Get(v)
	require.True(t, ok)
	assert.Equal(t, "Ann", got.Interface())

	require.True(t, name.Set(v, reflect.ValueOf("Bob")))
	assert.Equal(t, "Bob", c.Name)

	t.Run("promoted through nil pointer", func(t *testing.T) {
		createdBy, _ := Lookup(reflect.TypeFor[Customer](), "CreatedBy")

		_, ok := createdBy.Get(v)
		assert.False(t, ok)

		require.True(t, createdBy.Set(v, reflect.ValueOf("admin")))
		require.NotNil(t, c.Audit)
		assert.Equal(t, "admin", c.CreatedBy)
	})

	t.Run("promoted through unexported embedded value", func(t *testing.T) {
		region, _ := Lookup(reflect.TypeFor[Customer](), "Region")
		require.True(t, region.Set(v, reflect.ValueOf("eu")))
		assert.Equal(t, "eu", c.Region)
	})

	t.Run("getter properties", func(t *testing.T) {
		secret, _ := Lookup(reflect.TypeFor[Customer](), "Secret")
		got, ok := secret.Get(reflect.ValueOf(*c))
		require.True(t, ok)
		assert.Equal(t, "s3", got.Interface())

		display, _ := Lookup(reflect.TypeFor[Customer](), "DisplayName")
		got, ok = display.Get(reflect.ValueOf(*c))
		require.True(t, ok)
		assert.Equal(t, "Customer Bob", got.Interface())
	})

	t.Run("setter property", func(t *testing.T) {
		comment, _ := Lookup(reflect.TypeFor[Customer](), "Comment")
		require.True(t, comment.Set(v, reflect.ValueOf("vip")))
		assert.Equal(t, "vip", c.comment)

		assert.False(t, comment.Set(reflect.ValueOf(*c), reflect.ValueOf("lost")))
	})

	t.Run("nil owner", func(t *testing.T) {
		_, ok := name.Get(reflect.ValueOf((*Customer)(nil)))
		assert.False(t, ok)
		assert.False(t, name.Set(reflect.ValueOf((*Customer)(nil)), reflect.ValueOf("x")))
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want TypeKind
	}{
		{reflect.TypeFor[int](), TypeKindBasic},
		{reflect.TypeFor[time.Time](), TypeKindBasic},
		{reflect.TypeFor[uuid.UUID](), TypeKindBasic},
		{reflect.TypeFor[complex64](), TypeKindBasic},
		{reflect.TypeFor[Customer](), TypeKindStruct},
		{reflect.TypeFor[*Customer](), TypeKindPointer},
		{reflect.TypeFor[[]int](), TypeKindSlice},
		{reflect.TypeFor[[2]int](), TypeKindArray},
		{reflect.TypeFor[map[string]int](), TypeKindMap},
		{reflect.TypeFor[any](), TypeKindInterface},
		{reflect.TypeFor[chan int](), TypeKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.typ))
			assert.Equal(t, tt.want.String(), KindOf(tt.typ).String())
		})
	}

	assert.True(t, IsComplex(reflect.TypeFor[**Customer]()))
	assert.False(t, IsComplex(reflect.TypeFor[*time.Time]()))
}
