package research

const plannerPrompt = `You are a research planner. Given a topic, produce the web search queries that together cover the topic from multiple angles: fundamentals, recent developments, and credible analysis.

Topic: %s
Current time: %s

Respond with ONLY a JSON object in this exact shape, no other text:
{"search_queries": ["query 1", "query 2", "query 3"]}

Produce between 3 and %d queries.`

const composerPrompt = `You are a research writer. Using ONLY the scraped source material below, write a well-structured, in-depth blog post about the topic. Synthesize across sources, keep a neutral tone, and organize the post with markdown headings.

Topic: %s
Current time: %s

Source material:
%s

Respond with ONLY a JSON object in this exact shape, no other text:
{"title": "the blog post title", "blog_post": "the full blog post in markdown"}`
