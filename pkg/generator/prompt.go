package generator

import (
	"fmt"
	"strings"
)

// StyleOptions are free-form hints passed through to the model unvalidated.
type StyleOptions struct {
	ColorScheme string `json:"colorScheme"`
	Font        string `json:"font"`
}

const (
	GenerateMaxTokens = 8000
	EditMaxTokens     = 8000
	LogoMaxTokens     = 2000
)

func GeneratePrompt(businessName, businessDescription string, opts StyleOptions, imageURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a stunning, professional single-page website for %q.\n\n", businessName)
	fmt.Fprintf(&b, "Business: %s\n\n", businessDescription)
	b.WriteString(`Generate a complete HTML page with:
1. Sticky navigation bar with logo and links
2. Hero section with headline, subheadline and CTA buttons
3. Services section with 6 cards
4. About section
5. Testimonials (3)
6. Contact CTA section
7. Footer

Design requirements:
- Industry-appropriate colors
- Google Fonts
- Mobile responsive
- Smooth scroll JavaScript
- Professional copy
`)

	if opts.ColorScheme != "" {
		fmt.Fprintf(&b, "- Color scheme: %s\n", opts.ColorScheme)
	}
	if opts.Font != "" {
		fmt.Fprintf(&b, "- Primary font: %s\n", opts.Font)
	}
	if len(imageURLs) > 0 {
		b.WriteString("\nUse these stock photo URLs for imagery where appropriate:\n")
		for _, url := range imageURLs {
			fmt.Fprintf(&b, "- %s\n", url)
		}
	}

	b.WriteString("\nReturn ONLY the complete HTML. No markdown. No code blocks. No explanations.")
	return b.String()
}

// EditPrompt carries the full current document plus an explicit constraint
// list so the model applies the instruction additively instead of
// regenerating the page.
func EditPrompt(currentHTML, instruction string) string {
	var b strings.Builder

	b.WriteString("You are editing an existing website. Apply ONLY the requested change.\n\n")
	fmt.Fprintf(&b, "Requested change: %s\n\n", instruction)
	b.WriteString(`Constraints:
- Keep the overall structure, sections and layout intact
- Preserve all existing SEO tags, meta tags and structured data
- Preserve existing animations, scripts and smooth-scroll behavior
- Do not remove content unless the change explicitly asks for it
- Return the COMPLETE updated HTML document

Current HTML:
`)
	b.WriteString(currentHTML)
	b.WriteString("\n\nReturn ONLY the complete HTML. No markdown. No code blocks. No explanations.")
	return b.String()
}

func LogoPrompt(businessName, businessDescription string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Design a modern, minimal SVG logo for %q.\n\n", businessName)
	if businessDescription != "" {
		fmt.Fprintf(&b, "Business: %s\n\n", businessDescription)
	}
	b.WriteString(`Requirements:
- Single self-contained <svg> element, viewBox 0 0 200 60
- Flat design, at most 3 colors
- Include the business name as styled text
- No external fonts or images

Return ONLY the SVG markup. No markdown. No code blocks. No explanations.`)
	return b.String()
}
