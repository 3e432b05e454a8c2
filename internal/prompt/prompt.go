// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the literal instruction text for each generation
// stage. Composition is pure: the same inputs always produce the same
// prompt, which the stage tests rely on.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/pkg/types"
)

// Outline templates. Exactly one applies for a given pair of emptiness
// flags on (reference links, secondary keywords).
var (
	outlinePlainTmpl = template.Must(template.New("outline-plain").Parse(
		`I want you to be an expert in Food and Recipes and Generate an article outline for the topic "{{.Topic}}".`))

	outlineLinksTmpl = template.Must(template.New("outline-links").Parse(
		`I want you to be an expert in food and culinary writing and Generate an article outline for the topic "{{.Topic}}" and use the following articles as the primary source of reference: "{{.Links}}"`))

	outlineKeywordsTmpl = template.Must(template.New("outline-keywords").Parse(
		`I want you to be an expert in food and culinary writing and Generate an article outline for the topic "{{.Topic}}", while making sure to discuss these in the article: "{{.Keywords}}"`))

	outlineBothTmpl = template.Must(template.New("outline-both").Parse(
		`I want you to be an expert in food and culinary writing and Generate an article outline for the topic "{{.Topic}}" and use the following articles as the primary source of reference: "{{.Links}}". Make sure to discuss these in the article: "{{.Keywords}}"`))
)

// outlineInstructions is the fixed formatting block appended to every
// outline prompt, ahead of the contract example.
const outlineInstructions = `Give me strictly just the outline as output, there should be Introduction heading at the start followed by the individual headings for the content. No need for Conclusion. Use H2 style headings for each entry, and there should be no subheadings. Make the headings engaging, but keep it under 50 characters. Do not give me any additional text other than the outline. Make sure the output is in JSON so that it's easier to access the headings.`

// contentInstructions is the style block for the content stage.
const contentInstructions = `Write as a culinary expert with a strong command of food preparation, presenting each recipe in a clear, inviting, and grounded tone. Focus on useful techniques, ingredient highlights, and small details that help readers improve their results in the kitchen. Avoid overly casual language or imaginative openers like "Imagine" or "Picture this." Instead, begin each section with a direct yet natural sentence that introduces the idea or dish without unnecessary flair.

Use vivid but practical language that brings attention to textures, flavors, and cooking methods. Prioritize clarity, helpfulness, and appeal to home cooks looking for reliable inspiration. Every section, including the introduction, should be between 450 and 600 characters and maintain a steady rhythm, avoiding repetitive phrases or storytelling tropes.`

// excerptInstructions is the fixed block for the excerpt stage.
const excerptInstructions = `Write a single enticing excerpt for the article above, at most 160 characters, in the voice of a food blog. Do not repeat the title verbatim and do not give me any additional text other than the excerpt. Make sure the output is in JSON.`

// formatPreamble introduces the contract example at the end of each prompt.
const formatPreamble = "Here's the JSON structure I want to use:"

// ComposeOutline builds the outline-stage prompt for a topic row. Template
// selection depends only on which of the row's reference links and
// secondary keywords are non-empty.
func ComposeOutline(row types.TopicRow, contract *schema.Contract) (string, error) {
	data := struct {
		Topic, Links, Keywords string
	}{
		Topic:    row.MainKeyword,
		Links:    strings.Join(row.ReferenceLinks, ", "),
		Keywords: strings.Join(row.SecondaryKeywords, ", "),
	}

	var tmpl *template.Template
	switch {
	case len(row.ReferenceLinks) == 0 && len(row.SecondaryKeywords) == 0:
		tmpl = outlinePlainTmpl
	case len(row.ReferenceLinks) > 0 && len(row.SecondaryKeywords) == 0:
		tmpl = outlineLinksTmpl
	case len(row.ReferenceLinks) == 0 && len(row.SecondaryKeywords) > 0:
		tmpl = outlineKeywordsTmpl
	default:
		tmpl = outlineBothTmpl
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering outline template: %w", err)
	}

	return withFormat(buf.String()+"\n"+outlineInstructions, contract), nil
}

// ComposeContent builds the content-stage prompt from a validated outline.
func ComposeContent(topic string, outline types.Outline, contract *schema.Contract) string {
	headings := make([]string, len(outline.Sections))
	for i, s := range outline.Sections {
		headings[i] = s.Heading
	}

	var b strings.Builder
	b.WriteString(contentInstructions)
	b.WriteString("\n\nOnly return the content for the following sections without adding any extra commentary or explanations:\n")
	b.WriteString(strings.Join(headings, "\n"))
	fmt.Fprintf(&b, "\n\nMake sure the content generated is in reference to the title at hand: %q", topic)
	return withFormat(b.String(), contract)
}

// ComposeExcerpt builds the excerpt-stage prompt from the assembled body
// sections.
func ComposeExcerpt(topic string, sections []types.ContentSection, contract *schema.Contract) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Article title: %q\n\n", topic)
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n%s\n\n", s.Heading, s.Content)
	}
	b.WriteString(excerptInstructions)
	return withFormat(b.String(), contract)
}

// ImageKeyword builds the free-text prompt that derives a vendor search
// phrase for one section. Its output is not schema-validated.
func ImageKeyword(topic, sectionText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Blog Title: %s\n", topic)
	fmt.Fprintf(&b, "Section: %s\n\n", sectionText)
	b.WriteString("Task: Return a short keyword phrase (2-5 words) describing an image for this section. Respond with the phrase only, no quotes and no extra text.")
	return b.String()
}

// withFormat appends the format preamble and the contract's example
// payload so the model has an in-context sample of the expected shape.
func withFormat(body string, contract *schema.Contract) string {
	return body + "\n" + formatPreamble + "\n" + contract.ExampleJSON()
}
