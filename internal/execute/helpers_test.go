package execute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"field-assembler/internal/analyze"
	"field-assembler/internal/chain"
	"field-assembler/internal/container"
	"field-assembler/internal/expression"
	"field-assembler/internal/plan"
	"field-assembler/internal/rules"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

type Post struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Signature  string
	GroupID    int
	GroupName  string
	TagIDs     []int
	TagNames   []string
	Comments   []*Comment
	Payload    any
}

type Comment struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Post       *Post
}

type Feed struct {
	Posts []*Post
}

type Broken struct {
	UserID int64
	Count  int
	Email  string
}

const testRules = `
types:
  - type: execute.Post
    assemble:
      - field: AuthorID
        container: users
        props: ["name:AuthorName"]
        priority: 1
      - field: AuthorName
        container: self
        props:
          - ref: Signature
            exp: "target.AuthorName + '#' + string(target.ID)"
        priority: 2
      - field: GroupID
        container: lookup
        namespace: groups
        props: [":GroupName"]
        groups: [detail]
      - field: TagIDs
        container: lookup
        namespace: tags
        assembler: many-to-many
        props: [":TagNames"]
        groups: [detail]
    disassemble:
      - field: Comments
        type: Comment
      - field: Payload
  - type: execute.Comment
    assemble:
      - field: AuthorID
        container: users
        props: ["name:AuthorName"]
    disassemble:
      - field: Post
        type: Post
  - type: execute.Feed
    disassemble:
      - field: Posts
        type: Post
  - type: execute.Broken
    assemble:
      - field: UserID
        container: users
        props: ["name:Count", "email:Email"]
  - type: article
    assemble:
      - field: author_id
        container: users
        props: ["name:author"]
`

// mockContainer is a testify mock implementing container.Container.
type mockContainer struct {
	mock.Mock

	id    string
	scope container.Scope
}

func newMockContainer(id string, scope container.Scope) *mockContainer {
	return &mockContainer{id: id, scope: scope}
}

func (m *mockContainer) ID() string             { return m.id }
func (m *mockContainer) Scope() container.Scope { return m.scope }

func (m *mockContainer) Get(ctx context.Context, namespace string, keys []any) (map[any]any, error) {
	args := m.Called(ctx, namespace, keys)
	found, _ := args.Get(0).(map[any]any)

	return found, args.Error(1)
}

func testUsers() *container.Map {
	return container.NewMap("users", map[int64]*User{
		1: {ID: 1, Name: "ada", Email: "ada@example.com"},
		2: {ID: 2, Name: "linus", Email: "linus@example.com"},
	})
}

func testLookup() *container.Tables {
	lookup := container.NewTables("lookup")
	container.AddTable(lookup, "groups", map[int]string{5: "admins", 7: "staff"})
	container.AddTable(lookup, "tags", map[int]string{1: "go", 2: "db", 3: "ops"})

	return lookup
}

// newTestResolver resolves testRules against the default containers; later
// containers replace defaults with the same id.
func newTestResolver(t *testing.T, overrides ...container.Container) *plan.Resolver {
	t.Helper()

	f, err := rules.Parse([]byte(testRules))
	require.NoError(t, err)

	cs := append([]container.Container{testUsers(), testLookup(), container.NewSelf(container.SelfID)}, overrides...)

	return plan.NewResolver(f, plan.NewComponents(container.NewRegistry(cs...), nil))
}

func newTestChain(t *testing.T) *chain.Chain {
	t.Helper()

	ev, err := expression.NewEvaluator()
	require.NoError(t, err)

	return chain.New(chain.WithInterceptors(chain.ExpressionInterceptor{Evaluator: ev}))
}

func newTestDriver(t *testing.T, r *plan.Resolver, opts ...Option) *Driver {
	t.Helper()

	return NewDriver(r, append([]Option{WithChain(newTestChain(t))}, opts...)...)
}

func resolveFor[T any](t *testing.T, r *plan.Resolver) *plan.OperationConfiguration {
	t.Helper()

	cfg, err := r.Resolve(analyze.TypeFor[T]())
	require.NoError(t, err)

	return cfg
}
