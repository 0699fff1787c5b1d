package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "static"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"file":   fileStore,
	}
}

func TestStore_SaveGetIsolation(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte("hello")
			require.NoError(t, s.Save("game.html", data))
			data[0] = 'H'

			out, err := s.Get("game.html")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(out))

			out[0] = 'x'
			out2, err := s.Get("game.html")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(out2))
		})
	}
}

func TestStore_OverwriteListDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("b.txt", []byte("1")))
			require.NoError(t, s.Save("a.txt", []byte("2")))
			require.NoError(t, s.Save("b.txt", []byte("3")))

			names, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt", "b.txt"}, names)

			out, err := s.Get("b.txt")
			require.NoError(t, err)
			assert.Equal(t, "3", string(out))

			require.NoError(t, s.Delete("a.txt"))
			_, err = s.Get("a.txt")
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, s.Delete("a.txt"), ErrNotFound)

			names, err = s.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"b.txt"}, names)
		})
	}
}

func TestStore_InvalidNames(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", " ", ".", "..", "../escape.html", "dir/game.html", `dir\game.html`} {
				assert.ErrorIs(t, s.Save(bad, []byte("x")), ErrInvalidName, bad)
			}
		})
	}
}

func TestStore_Concurrency(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, s.Save(fmt.Sprintf("a%d", i%5), []byte("data")))
					_, _ = s.List()
				}(i)
			}
			wg.Wait()

			names, err := s.List()
			require.NoError(t, err)
			assert.Len(t, names, 5)
		})
	}
}

func TestFileStore_WritesIntoRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "static")
	s, err := NewFileStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	require.NoError(t, s.Save("game.html", []byte("<html></html>")))
	data, err := os.ReadFile(filepath.Join(root, "game.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	info, err := os.Stat(filepath.Join(root, "game.html"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// Subdirectories and hidden files are not artifacts.
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0o600))
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"game.html"}, names)
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang string
		want string
	}{
		{
			name: "tagged block",
			text: "Here is the game:\n```html\n<html>\n</html>\n```\nEnjoy!",
			lang: "html",
			want: "<html>\n</html>",
		},
		{
			name: "tag is case insensitive",
			text: "```HTML\n<p>x</p>\n```",
			lang: "html",
			want: "<p>x</p>",
		},
		{
			name: "skips other languages",
			text: "```css\nbody{}\n```\n```html\n<body></body>\n```",
			lang: "html",
			want: "<body></body>",
		},
		{
			name: "untagged fallback",
			text: "```\n<div></div>\n```",
			lang: "html",
			want: "<div></div>",
		},
		{
			name: "tagged preferred over earlier untagged",
			text: "```\nnotes\n```\n```html\n<i></i>\n```",
			lang: "html",
			want: "<i></i>",
		},
		{
			name: "no fence returns trimmed text",
			text: "\n  <!DOCTYPE html><html></html>\n",
			lang: "html",
			want: "<!DOCTYPE html><html></html>",
		},
		{
			name: "unterminated block",
			text: "```html\n<html>\n<body>",
			lang: "html",
			want: "<html>\n<body>",
		},
		{
			name: "longer fence and tilde",
			text: "~~~~html\n<a>\n~~~~",
			lang: "html",
			want: "<a>",
		},
		{
			name: "empty lang takes first block",
			text: "```js\nlet a\n```",
			lang: "",
			want: "let a",
		},
		{
			name: "info string with attributes",
			text: "```html title=game.html\n<b></b>\n```",
			lang: "html",
			want: "<b></b>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCode(tt.text, tt.lang))
		})
	}
}

func TestCheck(t *testing.T) {
	game := []byte(`<!DOCTYPE html><html><head><title>Snake</title>
<meta name="Viewport" content="width=device-width"></head>
<body><canvas id="c"></canvas><script>
function draw() {}
function generateFood() {}
function restartGame() {}
</script></body></html>`)
	assert.Empty(t, Check(game, GameRules))

	violations := Check([]byte("<html><script></script></html>"), GameRules)
	require.Len(t, violations, 6)
	assert.Equal(t, "canvas element", violations[0].Rule.Name)
	assert.Equal(t, `missing title ("<title>")`, violations[1].String())
}
