package schema

import "sync"

// DefaultAIPriorityTypes are the types flagged as AI-priority in the built-in catalog.
var DefaultAIPriorityTypes = []string{
	"FAQPage", "HowTo", "Article", "NewsArticle", "Product", "Organization", "QAPage",
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the built-in catalog. The result is shared; it is never
// mutated after construction.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(Catalog(), WithAIPriorityTypes(DefaultAIPriorityTypes...))
		if err != nil {
			panic("schema: built-in catalog is invalid: " + err.Error())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Catalog returns a fresh copy of the built-in rule table. Parents follow the schema.org hierarchy,
// keeping one parent where schema.org lists several.
func Catalog() []Rule {
	rules := make([]Rule, len(catalog))
	copy(rules, catalog)
	return rules
}

var catalog = []Rule{
	// Roots and abstract bases.
	{Type: "Thing", Recommended: []string{"name", "description", "url", "image"}},
	{Type: "CreativeWork", Parent: "Thing",
		Required: []string{"name"}, Recommended: []string{"author", "datePublished", "description"}},
	{Type: "Intangible", Parent: "Thing",
		Recommended: []string{"name", "description"}},
	{Type: "StructuredValue", Parent: "Intangible"},

	// Articles and news.
	{Type: "Article", Parent: "CreativeWork",
		Required:       []string{"headline", "image", "datePublished", "author"},
		Recommended:    []string{"dateModified", "publisher", "description", "mainEntityOfPage"},
		GoogleRequired: []string{"headline", "image", "datePublished"}},
	{Type: "NewsArticle", Parent: "Article",
		Required:       []string{"headline", "image", "datePublished", "author"},
		Recommended:    []string{"dateModified", "publisher", "description", "mainEntityOfPage", "dateline"},
		GoogleRequired: []string{"headline", "image", "datePublished"}},
	{Type: "Report", Parent: "Article",
		Required: []string{"headline", "datePublished"}, Recommended: []string{"author", "reportNumber"}},
	{Type: "ScholarlyArticle", Parent: "Article",
		Required:    []string{"headline", "author", "datePublished"},
		Recommended: []string{"abstract", "citation", "publisher", "sameAs"}},
	{Type: "TechArticle", Parent: "Article",
		Required:    []string{"headline", "datePublished"},
		Recommended: []string{"author", "proficiencyLevel", "dependencies", "image"}},
	{Type: "SocialMediaPosting", Parent: "Article",
		Required: []string{"headline", "datePublished", "author"}, Recommended: []string{"image", "sharedContent"}},
	{Type: "BlogPosting", Parent: "SocialMediaPosting",
		Required:       []string{"headline", "image", "datePublished", "author"},
		Recommended:    []string{"dateModified", "publisher", "description"},
		GoogleRequired: []string{"headline", "image", "datePublished"}},
	{Type: "LiveBlogPosting", Parent: "BlogPosting",
		Required:       []string{"headline", "coverageStartTime", "liveBlogUpdate"},
		Recommended:    []string{"coverageEndTime", "datePublished", "author"},
		GoogleRequired: []string{"coverageStartTime", "liveBlogUpdate"}},
	{Type: "Blog", Parent: "CreativeWork",
		Required: []string{"name"}, Recommended: []string{"blogPost", "author", "publisher"}},

	// Web pages and sites.
	{Type: "WebPage", Parent: "CreativeWork",
		Required: []string{"name"}, Recommended: []string{"url", "description", "breadcrumb"}},
	{Type: "FAQPage", Parent: "WebPage",
		Required: []string{"mainEntity"}, GoogleRequired: []string{"mainEntity"}},
	{Type: "QAPage", Parent: "WebPage",
		Required: []string{"mainEntity"}, GoogleRequired: []string{"mainEntity"}},
	{Type: "AboutPage", Parent: "WebPage",
		Required: []string{"name"}, Recommended: []string{"url", "description", "mainEntity"}},
	{Type: "ContactPage", Parent: "WebPage",
		Required: []string{"name"}, Recommended: []string{"url", "mainEntity"}},
	{Type: "CollectionPage", Parent: "WebPage",
		Required: []string{"name"}, Recommended: []string{"url", "mainEntity", "hasPart"}},
	{Type: "ItemPage", Parent: "WebPage",
		Required: []string{"name"}, Recommended: []string{"url", "mainEntity"}},
	{Type: "ProfilePage", Parent: "WebPage",
		Required: []string{"mainEntity"}, Recommended: []string{"dateCreated", "dateModified"},
		GoogleRequired: []string{"mainEntity"}},
	{Type: "WebSite", Parent: "CreativeWork",
		Required: []string{"name", "url"}, Recommended: []string{"potentialAction", "alternateName"},
		GoogleRequired: []string{"name", "url"}},

	// How-to, recipes and QA.
	{Type: "HowTo", Parent: "CreativeWork",
		Required:       []string{"name", "step"},
		Recommended:    []string{"image", "totalTime", "estimatedCost", "supply", "tool"},
		GoogleRequired: []string{"name", "step"}},
	{Type: "HowToStep", Parent: "CreativeWork",
		Required: []string{"text"}, Recommended: []string{"image", "name", "url"}},
	{Type: "HowToSection", Parent: "CreativeWork",
		Required: []string{"name", "itemListElement"}},
	{Type: "Recipe", Parent: "HowTo",
		Required: []string{"name", "image"},
		Recommended: []string{
			"author", "datePublished", "description", "recipeIngredient", "recipeInstructions",
			"totalTime", "recipeCuisine", "recipeYield", "nutrition", "aggregateRating",
		},
		GoogleRequired: []string{"name", "image"}},
	{Type: "Comment", Parent: "CreativeWork",
		Required: []string{"text"}, Recommended: []string{"author", "dateCreated"}},
	{Type: "Question", Parent: "Comment",
		Required: []string{"name", "acceptedAnswer"}, Recommended: []string{"author", "dateCreated", "answerCount"},
		GoogleRequired: []string{"name", "acceptedAnswer"}},
	{Type: "Answer", Parent: "Comment",
		Required: []string{"text"}, Recommended: []string{"author", "dateCreated", "upvoteCount"},
		GoogleRequired: []string{"text"}},
	{Type: "Review", Parent: "CreativeWork",
		Required: []string{"reviewRating", "author"}, Recommended: []string{"datePublished", "reviewBody", "itemReviewed"},
		GoogleRequired: []string{"reviewRating", "author"}},

	// Books, courses, software, datasets.
	{Type: "Book", Parent: "CreativeWork",
		Required:    []string{"name", "author"},
		Recommended: []string{"isbn", "bookFormat", "publisher", "datePublished", "aggregateRating"}},
	{Type: "Course", Parent: "CreativeWork",
		Required: []string{"name", "description"}, Recommended: []string{"provider", "offers", "hasCourseInstance"},
		GoogleRequired: []string{"name", "description"}},
	{Type: "SoftwareApplication", Parent: "CreativeWork",
		Required: []string{"name"},
		Recommended: []string{
			"offers", "aggregateRating", "operatingSystem", "applicationCategory", "description",
		},
		GoogleRequired: []string{"name"}},
	{Type: "MobileApplication", Parent: "SoftwareApplication",
		Required: []string{"name", "operatingSystem"}, Recommended: []string{"offers", "aggregateRating"}},
	{Type: "WebApplication", Parent: "SoftwareApplication",
		Required: []string{"name"}, Recommended: []string{"browserRequirements", "offers"}},
	{Type: "Dataset", Parent: "CreativeWork",
		Required: []string{"name", "description"}, Recommended: []string{"license", "creator", "distribution", "sameAs"},
		GoogleRequired: []string{"name", "description"}},

	// Media.
	{Type: "MediaObject", Parent: "CreativeWork",
		Required: []string{"contentUrl"}, Recommended: []string{"name", "encodingFormat", "uploadDate"}},
	{Type: "VideoObject", Parent: "MediaObject",
		Required:       []string{"name", "description", "thumbnailUrl", "uploadDate"},
		Recommended:    []string{"duration", "contentUrl", "embedUrl", "interactionStatistic"},
		GoogleRequired: []string{"name", "thumbnailUrl", "uploadDate"}},
	{Type: "ImageObject", Parent: "MediaObject",
		Required: []string{"contentUrl"}, Recommended: []string{"caption", "creator", "license", "width", "height"}},
	{Type: "AudioObject", Parent: "MediaObject",
		Required: []string{"contentUrl"}, Recommended: []string{"name", "duration", "transcript"}},
	{Type: "Movie", Parent: "CreativeWork",
		Required: []string{"name", "image"}, Recommended: []string{"director", "dateCreated", "aggregateRating", "review"},
		GoogleRequired: []string{"name", "image"}},
	{Type: "MusicRecording", Parent: "CreativeWork",
		Required: []string{"name"}, Recommended: []string{"byArtist", "duration", "inAlbum"}},
	{Type: "Episode", Parent: "CreativeWork",
		Required: []string{"name"}, Recommended: []string{"episodeNumber", "partOfSeries", "datePublished"}},
	{Type: "PodcastEpisode", Parent: "Episode",
		Required: []string{"name", "associatedMedia"}, Recommended: []string{"description", "duration", "partOfSeries"}},

	// Commerce.
	{Type: "Product", Parent: "Thing",
		Required:       []string{"name"},
		Recommended:    []string{"image", "description", "brand", "offers", "aggregateRating", "review", "sku", "gtin"},
		GoogleRequired: []string{"name"}},
	{Type: "ProductGroup", Parent: "Product",
		Required: []string{"name", "productGroupID"}, Recommended: []string{"hasVariant", "variesBy"}},
	{Type: "Vehicle", Parent: "Product",
		Required: []string{"name"}, Recommended: []string{"vehicleIdentificationNumber", "model", "brand", "offers"}},
	{Type: "Offer", Parent: "Intangible",
		Required:       []string{"price", "priceCurrency"},
		Recommended:    []string{"availability", "url", "priceValidUntil", "itemCondition"},
		GoogleRequired: []string{"price", "priceCurrency"}},
	{Type: "AggregateOffer", Parent: "Offer",
		Required: []string{"lowPrice", "priceCurrency"}, Recommended: []string{"highPrice", "offerCount"},
		GoogleRequired: []string{"lowPrice", "priceCurrency"}},
	{Type: "Brand", Parent: "Intangible",
		Required: []string{"name"}, Recommended: []string{"logo", "url"}},
	{Type: "Rating", Parent: "Intangible",
		Required: []string{"ratingValue"}, Recommended: []string{"bestRating", "worstRating"}},
	{Type: "AggregateRating", Parent: "Rating",
		Required: []string{"ratingValue", "ratingCount"}, Recommended: []string{"bestRating", "worstRating"},
		GoogleRequired: []string{"ratingValue"}},

	// Lists.
	{Type: "ItemList", Parent: "Intangible",
		Required: []string{"itemListElement"}, Recommended: []string{"numberOfItems", "itemListOrder"}},
	{Type: "BreadcrumbList", Parent: "ItemList",
		Required: []string{"itemListElement"}, GoogleRequired: []string{"itemListElement"}},
	{Type: "ListItem", Parent: "Intangible",
		Required: []string{"position"}, Recommended: []string{"name", "item"}},

	// Jobs.
	{Type: "JobPosting", Parent: "Intangible",
		Required: []string{"title", "description", "datePosted", "hiringOrganization"},
		Recommended: []string{
			"baseSalary", "employmentType", "jobLocation", "validThrough", "qualifications", "responsibilities",
		},
		GoogleRequired: []string{"title", "description", "datePosted", "hiringOrganization"}},

	// Structured values.
	{Type: "NutritionInformation", Parent: "StructuredValue",
		Recommended: []string{"calories", "fatContent", "proteinContent", "carbohydrateContent"}},
	{Type: "ContactPoint", Parent: "StructuredValue",
		Recommended: []string{"telephone", "contactType", "email", "areaServed"}},
	{Type: "PostalAddress", Parent: "ContactPoint",
		Recommended: []string{"streetAddress", "addressLocality", "postalCode", "addressCountry"}},
	{Type: "GeoCoordinates", Parent: "StructuredValue",
		Required: []string{"latitude", "longitude"}},
	{Type: "MonetaryAmount", Parent: "StructuredValue",
		Required: []string{"currency", "value"}},

	// Organizations and people.
	{Type: "Organization", Parent: "Thing",
		Required: []string{"name"}, Recommended: []string{"url", "logo", "contactPoint", "sameAs", "address"}},
	{Type: "Corporation", Parent: "Organization",
		Required: []string{"name"}, Recommended: []string{"tickerSymbol", "url", "logo", "sameAs"}},
	{Type: "EducationalOrganization", Parent: "Organization",
		Required: []string{"name"}, Recommended: []string{"url", "address", "alumni"}},
	{Type: "NewsMediaOrganization", Parent: "Organization",
		Required: []string{"name", "url"}, Recommended: []string{"logo", "publishingPrinciples", "sameAs"}},
	{Type: "LocalBusiness", Parent: "Organization",
		Required:       []string{"name", "address"},
		Recommended:    []string{"telephone", "openingHours", "geo", "priceRange", "image"},
		GoogleRequired: []string{"name", "address"}},
	{Type: "Store", Parent: "LocalBusiness",
		Required: []string{"name", "address"}, Recommended: []string{"openingHours", "telephone", "paymentAccepted"}},
	{Type: "FoodEstablishment", Parent: "LocalBusiness",
		Required: []string{"name", "address"}, Recommended: []string{"servesCuisine", "menu", "acceptsReservations"}},
	{Type: "Restaurant", Parent: "FoodEstablishment",
		Required:       []string{"name", "address"},
		Recommended:    []string{"servesCuisine", "menu", "priceRange", "telephone", "aggregateRating"},
		GoogleRequired: []string{"name", "address"}},
	{Type: "Person", Parent: "Thing",
		Required: []string{"name"}, Recommended: []string{"url", "image", "jobTitle", "worksFor", "sameAs", "email"}},

	// Events and places.
	{Type: "Event", Parent: "Thing",
		Required:       []string{"name", "startDate", "location"},
		Recommended:    []string{"endDate", "image", "description", "offers", "performer", "organizer"},
		GoogleRequired: []string{"name", "startDate", "location"}},
	{Type: "BusinessEvent", Parent: "Event",
		Required: []string{"name", "startDate", "location"}, Recommended: []string{"organizer", "offers"}},
	{Type: "EducationEvent", Parent: "Event",
		Required: []string{"name", "startDate", "location"}, Recommended: []string{"educationalLevel", "teaches"}},
	{Type: "MusicEvent", Parent: "Event",
		Required: []string{"name", "startDate", "location"}, Recommended: []string{"performer", "offers"}},
	{Type: "SportsEvent", Parent: "Event",
		Required: []string{"name", "startDate", "location"}, Recommended: []string{"homeTeam", "awayTeam", "sport"}},
	{Type: "Place", Parent: "Thing",
		Required: []string{"name"}, Recommended: []string{"address", "geo"}},
}
