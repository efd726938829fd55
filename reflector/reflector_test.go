package reflector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/internal/testutil"
)

func newProjectReflector(t *testing.T) (*Reflector, string) {
	t.Helper()
	root := testutil.WriteProject(t, testutil.UsersProject())
	return New(root), root
}

func TestControllerPath(t *testing.T) {
	r, root := newProjectReflector(t)

	assert.Equal(t, filepath.Join(root, ControllerDir, "UserController.php"), r.ControllerPath("UserController.php"))
	// a missing exact file falls back to the classified name
	assert.Equal(t, filepath.Join(root, ControllerDir, "UserController.php"), r.ControllerPath("users"))
	assert.Equal(t, filepath.Join(root, ControllerDir, "OrderItemController.php"), r.ControllerPath("OrderItemsController.php"))
	assert.Empty(t, r.ControllerPath(""))

	assert.Equal(t, filepath.Join(root, ServiceDir, "UserService.php"), r.ServicePath("UserController.php"))
	assert.Empty(t, r.ServicePath(""))
}

func TestFunctionSource(t *testing.T) {
	src := `class A {
  public function getOne($id) { if ($id) { return 1; } return 0; }
  public function other() {}
}`
	body, ok := FunctionSource(src, "getOne")
	require.True(t, ok)
	assert.Equal(t, `public function getOne($id) { if ($id) { return 1; } return 0; }`, body)

	body, ok = FunctionSource(src, "GETONE")
	assert.True(t, ok, "declarations match case-insensitively")
	assert.NotEmpty(t, body)

	_, ok = FunctionSource(src, "missing")
	assert.False(t, ok)

	_, ok = FunctionSource(`public function broken() { {`, "broken")
	assert.False(t, ok)
}

func TestQueryParams(t *testing.T) {
	r, _ := newProjectReflector(t)

	params := r.QueryParams("UserController.php", "getAll")
	assert.Equal(t, []QueryParam{{Name: "limit"}, {Name: "search"}}, params)

	assert.Empty(t, r.QueryParams("UserController.php", "create"))
	assert.Empty(t, r.QueryParams("UserController.php", "missing"))
	assert.Empty(t, r.QueryParams("NopeController.php", "getAll"))
}

func TestExtractQueryParamsDeduplicates(t *testing.T) {
	body := `$a = $request->getQueryParams()["page"]; $b = $params['page']; $c = $params['sort'];`
	assert.Equal(t, []QueryParam{{Name: "page"}, {Name: "sort"}}, ExtractQueryParams(body))
}

func TestBodyFields(t *testing.T) {
	r, _ := newProjectReflector(t)

	assert.Equal(t, []string{"email", "name", "born_at"}, r.BodyFields("UserController.php", "create"))
	assert.Equal(t, []string{"name"}, r.BodyFields("UserController.php", "update"))
	assert.Empty(t, r.BodyFields("UserController.php", "getAll"))
	assert.Empty(t, r.BodyFields("", "create"))
}

func TestExtractBodyFieldsStrategies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "filtered literal",
			body: "$dto = array_filter([\n  'title' => $input['title'],\n  \"body\" => $input['body'],\n]);",
			want: []string{"title", "body"},
		},
		{
			name: "bare literal",
			body: "$dto = [\n  'title' => $input['title'] ?: null,\n];",
			want: []string{"title"},
		},
		{
			name: "helper call",
			body: "$dto = Helper::pick($input, ['title', \"body\", 'title']);",
			want: []string{"title", "body"},
		},
		{
			name: "filtered literal wins over helper",
			body: "$dto = array_filter([\n  'a' => 1,\n]);\n$dto = Helper::pick($input, ['b']);",
			want: []string{"a"},
		},
		{
			name: "empty literal falls through to helper",
			body: "$dto = [];\n$dto = $this->only($input, ['c']);",
			want: []string{"c"},
		},
		{
			name: "no dto",
			body: "$x = ['a' => 1];",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBodyFields(tt.body))
		})
	}
}

func TestResponse(t *testing.T) {
	r, _ := newProjectReflector(t)

	all := r.Response("UserController.php", "getAll")
	assert.Equal(t, Response{Description: DescArray, Shape: ShapeArray, Columns: []string{"id", "email", "name"}}, all)

	one := r.Response("UserController.php", "getOne")
	assert.Equal(t, Response{Description: DescSingle, Shape: ShapeObject, Columns: []string{"id", "email", "display_name"}}, one)

	assert.Equal(t, DescNoSQL, r.Response("UserController.php", "delete").Description)
	assert.Equal(t, DescExtractError, r.Response("UserController.php", "update").Description)
	assert.Equal(t, DescReadError, r.Response("GhostController.php", "getAll").Description)
}

func TestExtractResponseNoSelect(t *testing.T) {
	body := "$query = <<<SQL\n  DELETE FROM users WHERE id = ?\nSQL;\n"
	got := ExtractResponse(body)
	assert.Equal(t, DescNoSelect, got.Description)
	assert.Equal(t, ShapeUnknown, got.Shape)
}

func TestExtractResponseSkipsStar(t *testing.T) {
	body := "$q = <<<SQL\n  SELECT u.*, 'x' AS kind FROM users u\nSQL;\n$this->conn->fetchOne($q);"
	got := ExtractResponse(body)
	assert.Equal(t, ShapeObject, got.Shape)
	assert.Equal(t, []string{"kind"}, got.Columns)
}
