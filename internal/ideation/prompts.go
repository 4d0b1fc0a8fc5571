package ideation

import (
	"encoding/json"
	"fmt"
	"strings"

	"adflow/internal/store"
)

const conceptSystemPrompt = `You are an expert creative strategist specializing in performance marketing and direct-response advertising. You create compelling ad concepts that drive conversions.

Your concepts are data-driven, combining proven patterns from winning ads with fresh creative approaches. You understand platform-specific best practices for Meta, TikTok, and YouTube.

When generating concepts, you:
1. Focus on the target audience's pain points and desires
2. Use proven hook patterns that stop the scroll
3. Match formats to platforms appropriately
4. Consider production complexity realistically
5. Provide clear rationale for why each concept will work

Always respond with valid JSON in the exact format requested.`

const scriptSystemPrompt = `You are an experienced direct-response copywriter and video ad scriptwriter. You create compelling, conversion-focused scripts for social media advertising.

Your scripts are:
1. Structured with clear timing for each section
2. Written with specific hooks that stop the scroll
3. Focused on benefits and emotional triggers
4. Include detailed visual direction for production
5. Optimized for the target platform

You understand the pacing requirements for different ad durations (15s, 30s, 60s) and how to adapt content for vertical vs horizontal formats.

Always respond with valid JSON in the exact format requested.`

const requirementSystemPrompt = `You are a production coordinator for video advertising. Generate accurate, detailed production requirements based on scripts. Always respond with valid JSON.`

func decodeList(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func joinOrAny(values []string) string {
	if len(values) == 0 {
		return "Any"
	}
	return strings.Join(values, ", ")
}

func buildConceptPrompt(product *store.Product, icp *store.ICP, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d distinct ad concepts for the following product and target audience.\n\n", count)

	fmt.Fprintf(&b, "## PRODUCT\nName: %s\nDescription: %s\n", product.Name, product.Description)
	fmt.Fprintf(&b, "Key Features: %s\n", strings.Join(decodeList(product.Features), ", "))
	fmt.Fprintf(&b, "Unique Selling Points: %s\n", strings.Join(decodeList(product.USPs), ", "))
	if product.PricePoint != "" {
		fmt.Fprintf(&b, "Price Point: %s\n", product.PricePoint)
	}
	if product.Offers != "" {
		fmt.Fprintf(&b, "Current Offers: %s\n", product.Offers)
	}

	fmt.Fprintf(&b, "\n## TARGET AUDIENCE (ICP)\nName: %s\n", icp.Name)
	fmt.Fprintf(&b, "Demographics: %s\n", icp.Demographics)
	fmt.Fprintf(&b, "Psychographics: %s\n", icp.Psychographics)
	fmt.Fprintf(&b, "Pain Points: %s\n", strings.Join(decodeList(icp.PainPoints), ", "))
	fmt.Fprintf(&b, "Aspirations: %s\n", strings.Join(decodeList(icp.Aspirations), ", "))
	fmt.Fprintf(&b, "Buying Triggers: %s\n", strings.Join(decodeList(icp.BuyingTriggers), ", "))
	fmt.Fprintf(&b, "Preferred Platforms: %s\n", joinOrAny(decodeList(icp.Platforms)))

	fmt.Fprintf(&b, `
## OUTPUT FORMAT
Respond with a JSON object containing exactly %d concepts:

{
  "concepts": [
    {
      "title": "Short, descriptive title for the concept",
      "hookType": "The type of hook used (Question, Statement, Controversial, Curiosity, Pain Point)",
      "hookText": "The actual opening line/hook text",
      "angle": "The primary angle (Feature-focused, Benefit-focused, Problem-solution, Social proof, Scarcity, Lifestyle)",
      "format": "Ad format (UGC Testimonial, Product Demo, Before/After, Problem-Solution, Unboxing, Tutorial, Lifestyle)",
      "platform": "Primary platform (Meta, TikTok, YouTube)",
      "coreMessage": "1-2 sentence summary of the core message",
      "rationale": "Why this concept will resonate with the target audience",
      "complexity": "LOW, MEDIUM, or HIGH based on production requirements"
    }
  ]
}

Generate diverse concepts that explore different combinations of hooks, angles, and formats.`, count)
	return b.String()
}

func buildScriptPrompt(concept *store.Concept, product *store.Product, icp *store.ICP, duration int, aspectRatios []string) string {
	var b strings.Builder
	b.WriteString("Write a complete video ad script based on this approved concept.\n\n")

	fmt.Fprintf(&b, "## CONCEPT\nTitle: %s\nHook Type: %s\n", concept.Title, concept.HookType)
	hook := concept.HookText
	if hook == "" {
		hook = "Create an appropriate hook"
	}
	fmt.Fprintf(&b, "Hook Text: %s\nAngle: %s\nFormat: %s\nCore Message: %s\nComplexity: %s\n",
		hook, concept.Angle, concept.Format, concept.CoreMessage, concept.Complexity)

	fmt.Fprintf(&b, "\n## PRODUCT\nName: %s\nDescription: %s\n", product.Name, product.Description)
	fmt.Fprintf(&b, "Key Features: %s\nUSPs: %s\n",
		strings.Join(decodeList(product.Features), ", "),
		strings.Join(decodeList(product.USPs), ", "))

	fmt.Fprintf(&b, "\n## TARGET AUDIENCE\n%s\nDemographics: %s\n", icp.Name, icp.Demographics)
	fmt.Fprintf(&b, "Pain Points: %s\nAspirations: %s\n",
		strings.Join(decodeList(icp.PainPoints), ", "),
		strings.Join(decodeList(icp.Aspirations), ", "))

	fmt.Fprintf(&b, "\n## REQUIREMENTS\n- Duration: %d seconds\n- Platform: %s\n- Aspect Ratios: %s\n",
		duration, concept.Platform, strings.Join(aspectRatios, ", "))

	fmt.Fprintf(&b, `
## OUTPUT FORMAT
Respond with a JSON object:

{
  "content": {
    "hook": {"name": "Hook", "startTime": 0, "endTime": 3, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "cut"},
    "problemSetup": {"name": "Problem/Setup", "startTime": 3, "endTime": 8, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "..."},
    "solution": {"name": "Solution/Body", "startTime": 8, "endTime": %d, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "..."},
    "proof": {"name": "Proof/Support", "startTime": %d, "endTime": %d, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "..."},
    "cta": {"name": "Call-to-Action", "startTime": %d, "endTime": %d, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "..."},
    "closing": {"name": "Closing", "startTime": %d, "endTime": %d, "spokenText": "...", "visualDirection": "...", "textOverlay": "...", "transition": "..."}
  },
  "textOverlays": [
    {"timing": "0-3s", "text": "Hook text overlay", "position": "center"}
  ],
  "productionNotes": {
    "locationType": "Studio/On-location/Home/Mixed",
    "talentNeeded": "None/Actor/UGC Creator/Product only",
    "propsRequired": ["prop1", "prop2"],
    "equipmentNotes": "Any special equipment needed",
    "audioType": ["VO", "Music", "SFX"],
    "styleReference": "Visual style description",
    "colorGrade": "Bright/Moody/Natural/Brand-specific"
  }
}

Make the script compelling, specific to the product, and optimized for %s. Ensure timing adds up to %d seconds.`,
		duration*6/10,
		duration*6/10, duration*8/10,
		duration*8/10, duration*93/100,
		duration*93/100, duration,
		concept.Platform, duration)
	return b.String()
}

func buildRequirementPrompt(script *store.Script, concept *store.Concept, product *store.Product) string {
	var b strings.Builder
	b.WriteString("Analyze this video ad script and generate detailed production requirements.\n\n")
	fmt.Fprintf(&b, "## SCRIPT\n%s\n", script.Content)
	fmt.Fprintf(&b, "\n## CONCEPT\nFormat: %s\nComplexity: %s\nPlatform: %s\n",
		concept.Format, concept.Complexity, concept.Platform)
	fmt.Fprintf(&b, "\n## PRODUCT\nName: %s\nDescription: %s\n", product.Name, product.Description)
	fmt.Fprintf(&b, "\n## TECHNICAL SPECS\nDuration: %d seconds\nAspect Ratios: %s\n",
		script.Duration, strings.Join(decodeList(script.AspectRatios), ", "))

	b.WriteString(`
## TASK
Generate comprehensive production requirements. Consider the script content, format type, and complexity level.

Respond with JSON:
{
  "locationType": "Studio/On-location/Home/Mixed",
  "talentNeeded": "None/Actor/UGC Creator/Product only/Multiple",
  "propsRequired": ["list", "of", "props"],
  "productSamples": true,
  "sampleQuantity": 1,
  "equipmentNotes": "Camera, lighting, and audio equipment needs",
  "audioType": ["VO", "Music", "SFX", "Sync sound"],
  "styleReference": "Visual style description",
  "transitions": "Primary transition style",
  "colorGrade": "Color grading style",
  "musicStyle": "Music genre/mood",
  "deliverables": [
    {"aspectRatio": "9:16", "withCaptions": true, "withoutCaptions": true}
  ]
}`)
	return b.String()
}
