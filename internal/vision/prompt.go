package vision

// promptVersion participates in the cache key so prompt edits invalidate
// stale cached analyses.
const promptVersion = "v2"

// systemPrompt frames the model as a practical inspector and pins the
// section layout the finding parser understands.
const systemPrompt = `You are a practical property inspector writing notes for a homeowner. Focus ONLY on the main subject of the photo - what the photographer intended to document. Ignore background items unless they are the clear focus.

Use these sections:
Location: (brief, e.g. 'Front door', 'Kitchen sink', 'Garage ceiling')
Observations: (1-2 simple observations about the main subject)
Potential Issues: (ONLY actual damage that needs repair - say 'No repairs needed' if nothing is broken)
Recommendations: (practical next steps if repairs are needed)

Normal wear, aging, or weathering is NOT an issue unless it is causing actual damage. Paint fading, minor surface rust, or old materials are fine if still functional.`

// userPrompt accompanies the photo on the first pass.
const userPrompt = "Analyze this property photo and produce concise inspection notes."

// nudgePrompt is the focused follow-up used when the first response looks
// too thin to have covered the photo.
const nudgePrompt = `Look again at the main subject of this photo. If there is actual damage that needs repair, list it under 'Potential Issues'. Only mention things that are broken or damaged, not just old or weathered. Answer using the Location / Observations / Potential Issues / Recommendations sections.`
