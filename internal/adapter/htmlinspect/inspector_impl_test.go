package htmlinspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<html><head>
<title> Blue Mug | Shop </title>
<meta name="description" content="A sturdy blue mug.">
<meta property="og:image" content="https://cdn.shop.com/mug.jpg">
<style>body{color:red}</style>
</head><body>
<script>var tracking = "lots of script text";</script>
<h1>Blue Mug</h1>
<p>Holds   350ml.</p>
</body></html>`

func TestInspectProductPage(t *testing.T) {
	s, err := New().Inspect(productPage)
	require.NoError(t, err)

	assert.Equal(t, "Blue Mug | Shop", s.Title)
	assert.Equal(t, "A sturdy blue mug.", s.Description)
	assert.Equal(t, "https://cdn.shop.com/mug.jpg", s.Image)
	assert.Equal(t, len("Blue Mug Holds 350ml."), s.TextLength)
	assert.False(t, s.Captcha)
}

func TestInspectEmptyBody(t *testing.T) {
	s, err := New().Inspect(`<html><head><title>x</title></head><body><script>1</script></body></html>`)
	require.NoError(t, err)
	assert.Zero(t, s.TextLength)
}

func TestInspectCaptcha(t *testing.T) {
	s, err := New().Inspect(`<html><body><div class="g-recaptcha"></div><p>Are you a robot?</p></body></html>`)
	require.NoError(t, err)
	assert.True(t, s.Captcha)
	assert.NotZero(t, s.TextLength)
}

func TestInspectOGTitleWins(t *testing.T) {
	s, err := New().Inspect(`<html><head><title>Fallback</title><meta property="og:title" content="OG Title"></head><body>x</body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", s.Title)
}
