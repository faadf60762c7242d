package render

const articleTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body {
    font-family: Georgia, 'Times New Roman', serif;
    max-width: 720px;
    margin: 0 auto;
    padding: 2rem 1rem;
    line-height: 1.7;
    color: #1a1a1a;
  }
  h1, h2, h3 {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
    line-height: 1.25;
  }
  a { color: #0b5fff; }
  sup a { text-decoration: none; }
  blockquote {
    border-left: 3px solid #ddd;
    margin-left: 0;
    padding-left: 1rem;
    color: #555;
  }
  pre {
    overflow-x: auto;
    padding: 1rem;
    border-radius: 6px;
  }
  img { max-width: 100%; }
</style>
</head>
<body>
<article>
{{.Content}}
</article>
</body>
</html>
`
