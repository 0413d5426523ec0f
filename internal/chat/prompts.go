package chat

import "fmt"

// Greeting seeds every new session's transcript.
const Greeting = "Hello! I'm your Photo Gallery Assistant, here to help you explore and manage your photo collection. " +
	"I can assist with finding images by descriptions or tags, describing uploaded photos, and showing similar images from the gallery. " +
	"Just ask me anything about your photos!"

// ImageDescriptionPrompt asks the vision model for the caption that enters
// the transcript when a user uploads an image.
const ImageDescriptionPrompt = "Provide a concise, detailed description of this image in 2-3 sentences, " +
	"focusing on key objects, actions, colors, and the overall scene. Highlight " +
	"any notable elements like people, animals, or landscapes that might " +
	"help identify or categorize the image for a photo gallery."

const askSimilarSuffix = "\n\nWould you like to see similar images from the gallery?"

// decisionPrompt instructs the model to answer exactly yes or no. The
// embedded examples anchor the boundary: requests to find/show/display images
// are yes, general or meta questions are no, ambiguous defaults to no.
func decisionPrompt(query string) string {
	return "Determine if the following query requires retrieving and displaying images from the database. " +
		"Answer only 'yes' if the query is asking to find, show, or display images based on some criteria, " +
		"and 'no' if it's a general question or doesn't involve displaying images. Query: '" + query + "'\n" +
		"Examples:\n" +
		"- 'Show me beach images' -> yes\n" +
		"- 'How many images are there?' -> no\n" +
		"- 'What is your name?' -> no\n" +
		"- 'Can you help me find a specific image?' -> yes\n" +
		"- 'Tell me a joke' -> no\n" +
		"- 'Display photos of mountain sunsets.' -> yes\n" +
		"- 'Find images of ancient Rome.' -> yes\n" +
		"- 'Can you show me landscape images?' -> yes\n" +
		"- 'Image of a fluffy white cat.' -> yes\n" +
		"- 'How many pictures do you have of cars?' -> no\n" +
		"- 'What kind of images can you show?' -> no\n" +
		"- 'Tell me about the history of photography.' -> no\n" +
		"- 'Is it possible to search for images by color?' -> no\n" +
		"- 'Explain image processing to me.' -> no\n" +
		"If the query is ambiguous, assume 'no' unless it explicitly mentions images or visual content."
}

func noResultsResponse(query string) string {
	return fmt.Sprintf("I couldn't find any photos matching '%s'. Try different keywords or tags, or describe what you're looking for differently.", query)
}

func noSelectionResponse(query string) string {
	return fmt.Sprintf("I found some images related to '%s', but none seemed relevant enough to show. Would you like me to try something else?", query)
}

func selectionIntro(multimodal bool) string {
	if multimodal {
		return "Assistant: Here are some images retrieved based on the query and uploaded image:\n"
	}
	return "Assistant: Here are some images that might be relevant:\n"
}

func selectionInstruction(multimodal bool) string {
	if multimodal {
		return "\nBased on the query, uploaded image, and conversation history, select the most " +
			"relevant images to show. Respond with the numbers of the images to display (e.g., '1,3')."
	}
	return "\nBased on the query and conversation history, select the most relevant images " +
		"to show. Respond with the numbers of the images to display (e.g., '1,3')."
}
