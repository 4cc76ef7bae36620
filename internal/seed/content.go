package seed

import "buddymatch/internal/domain/support"

var articles = []support.Article{
	{
		Slug:     "understanding-reactivity",
		Title:    "Understanding Reactivity",
		Category: "Basics",
		Order:    1,
		Body: "Reactivity is an overreaction to normal stimuli like other dogs, " +
			"strangers, bikes, or loud noises. It is usually rooted in fear or " +
			"frustration, not aggression. A reactive dog barks, lunges, or whines " +
			"because it is over threshold, not because it is bad.\n\n" +
			"The first step is learning your dog's triggers and the distance at " +
			"which they appear. Below that threshold your dog can notice a trigger " +
			"and still take treats, respond to cues, and disengage.",
	},
	{
		Slug:     "threshold-and-distance",
		Title:    "Threshold and Distance",
		Category: "Basics",
		Order:    2,
		Body: "Every reactive dog has a threshold distance: close enough to notice " +
			"the trigger, far enough to stay calm. Training happens under " +
			"threshold. If your dog is already barking and lunging, you are too " +
			"close and no learning is happening.\n\n" +
			"Add distance, let your dog decompress, and try again further away. " +
			"Progress is measured in feet, then yards, over weeks.",
	},
	{
		Slug:     "engage-disengage",
		Title:    "The Engage-Disengage Game",
		Category: "Training",
		Order:    1,
		Body: "Mark and reward your dog for looking at a trigger calmly, then for " +
			"looking back at you. Level one: the instant your dog notices the " +
			"trigger, mark and treat. Level two: wait a beat; if your dog looks " +
			"at the trigger and voluntarily looks back at you, mark and reward " +
			"generously.\n\n" +
			"Keep sessions short and below threshold. End on a win.",
	},
	{
		Slug:     "parallel-walks",
		Title:    "Parallel Walks",
		Category: "Training",
		Order:    2,
		Body: "Parallel walking is the safest way to introduce two reactive dogs. " +
			"Start on opposite sides of a street or field, walking the same " +
			"direction with handlers between the dogs. Over multiple sessions, " +
			"gradually decrease the distance only while both dogs stay relaxed.\n\n" +
			"Never start with a face-to-face greeting. Moving together in the same " +
			"direction is far less confrontational than approaching head-on.",
	},
	{
		Slug:     "muzzle-training",
		Title:    "Muzzle Training Is Kind",
		Category: "Training",
		Order:    3,
		Body: "A well-fitted basket muzzle lets a dog pant, drink, and take treats " +
			"while keeping everyone safe. Condition it slowly: treats near the " +
			"muzzle, then nose-in for a second, then longer, then clipped on for " +
			"short happy stretches.\n\n" +
			"A muzzled dog at a meetup is a responsible dog, not a dangerous one.",
	},
	{
		Slug:     "meetup-safety",
		Title:    "Meetup Safety Checklist",
		Category: "Meetups",
		Order:    1,
		Body: "Before any meetup: agree on a neutral location with escape room, " +
			"keep all dogs leashed, and start with far more distance than you " +
			"think you need. Share your dogs' triggers with each other in advance.\n\n" +
			"During: watch for stiffening, hard stares, whale eye, and closed " +
			"mouths. Any of these means add distance immediately. One calm parallel " +
			"walk is a successful first meetup; greetings can wait for session " +
			"three or later.",
	},
	{
		Slug:     "decompression",
		Title:    "Decompression Days",
		Category: "Meetups",
		Order:    2,
		Body: "After a stressful event, cortisol can stay elevated for days. Plan " +
			"decompression time after every meetup: quiet sniffy walks in low-" +
			"traffic areas, enrichment at home, no training pressure.\n\n" +
			"If a meetup went badly, give it several days before trying again, and " +
			"restart at a much greater distance.",
	},
	{
		Slug:     "finding-a-trainer",
		Title:    "Finding a Qualified Trainer",
		Category: "Getting Help",
		Order:    1,
		Body: "Look for credentials like CPDT-KA, KPA-CTP, IAABC, or a veterinary " +
			"behaviorist (DACVB) for severe cases. Ask prospective trainers what " +
			"happens when the dog gets it right, what happens when it gets it " +
			"wrong, and whether there is a less invasive alternative.\n\n" +
			"Avoid anyone promising a quick fix or relying on corrections for " +
			"fear-based reactivity; suppression is not recovery.",
	},
}

var resources = []support.Resource{
	{Category: "Books", Title: "BAT 2.0 — Grisha Stewart", URL: "https://grishastewart.com/bat-2-0-book/", Type: "book", Order: 1},
	{Category: "Books", Title: "Click to Calm — Emma Parsons", URL: "https://www.clickertraining.com/click-to-calm", Type: "book", Order: 2},
	{Category: "Books", Title: "Feisty Fido — Patricia McConnell", URL: "https://www.patriciamcconnell.com/store/Feisty-Fido.html", Type: "book", Order: 3},
	{Category: "Online Courses", Title: "CARE for Reactive Dogs", URL: "https://careforreactivedogs.com/", Type: "course", Order: 1},
	{Category: "Online Courses", Title: "Fenzi Dog Sports Academy", URL: "https://www.fenzidogsportsacademy.com/", Type: "course", Order: 2},
	{Category: "Communities", Title: "r/reactivedogs", URL: "https://www.reddit.com/r/reactivedogs/", Type: "community", Order: 1},
	{Category: "Communities", Title: "Muzzle Up! Project", URL: "https://muzzleupproject.com/", Type: "community", Order: 2},
	{Category: "Find a Professional", Title: "CCPDT Trainer Directory", URL: "https://www.ccpdt.org/dog-owners/certified-dog-trainer-directory/", Type: "directory", Order: 1},
	{Category: "Find a Professional", Title: "IAABC Consultant Directory", URL: "https://iaabc.org/certs/members/", Type: "directory", Order: 2},
	{Category: "Find a Professional", Title: "DACVB Veterinary Behaviorists", URL: "https://www.dacvb.org/search/custom.asp?id=4709", Type: "directory", Order: 3},
}
