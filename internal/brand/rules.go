package brand

// DefaultRules is the curated subscription-brand lexicon. Order matters:
// the resolver takes the first match, so more specific aliases should stay
// ahead of generic ones. This is static data and the main extension point
// for new brands.
func DefaultRules() []Rule {
	return []Rule{
		// Entertainment / streaming.
		{Name: "netflix", Category: "entertainment", Pattern: `\bnetflix(\.com)?\b`},
		{Name: "disney plus", Category: "entertainment", Pattern: `\bdisney\+|\bdisney\s*plus\b`},
		{Name: "max", Category: "entertainment", Pattern: `\bhbo\s*max\b|\bmax\b`},
		{Name: "hulu", Category: "entertainment", Pattern: `\bhulu\b`},
		{Name: "prime video", Category: "entertainment", Pattern: `\bamazon\s*prime\b|\bprime\s*video\b`},
		{Name: "apple tv+", Category: "entertainment", Pattern: `\bapple\s*tv\s*\+`},
		{Name: "paramount+", Category: "entertainment", Pattern: `\bparamount\+|\bparamount\s*plus\b`},
		{Name: "peacock", Category: "entertainment", Pattern: `\bpeacock\b`},
		{Name: "crunchyroll", Category: "entertainment", Pattern: `\bcrunchyroll\b`},
		{Name: "espn+", Category: "entertainment", Pattern: `\bespn\+|\bespn\s*plus\b`},
		{Name: "dazn", Category: "entertainment", Pattern: `\bdazn\b`},

		// Music / audio.
		{Name: "spotify", Category: "entertainment", Pattern: `\bspotify\b`},
		{Name: "apple music", Category: "entertainment", Pattern: `\bapple\s*music\b`},
		{Name: "youtube premium", Category: "entertainment", Pattern: `\byoutube\s+premium\b|\byt\s+premium\b`},
		{Name: "youtube music", Category: "entertainment", Pattern: `\byoutube\s+music\b`},
		{Name: "tidal", Category: "entertainment", Pattern: `\btidal\b`},
		{Name: "audible", Category: "entertainment", Pattern: `\baudible\b`},
		{Name: "siriusxm", Category: "entertainment", Pattern: `\bsirius\s*xm\b|\bsiriusxm\b`},

		// News / magazines.
		{Name: "nyt", Category: "news", Pattern: `\bnew\s*york\s*times\b|\bnytimes\b|\bnyt\b`},
		{Name: "wsj", Category: "news", Pattern: `\bwall\s*street\s*journal\b|\bwsj\b`},
		{Name: "washington post", Category: "news", Pattern: `\bwashington\s*post\b|\bwapo\b`},
		{Name: "the economist", Category: "news", Pattern: `\beconomist\b|\bthe\s*economist\b`},
		{Name: "bloomberg", Category: "news", Pattern: `\bbloomberg\b`},
		{Name: "financial times", Category: "news", Pattern: `\bfinancial\s*times\b|\bft\.com\b|\bft\b`},
		{Name: "medium", Category: "news", Pattern: `\bmedium\b`},

		// Gaming.
		{Name: "playstation plus", Category: "gaming", Pattern: `\bplaystation\s*plus\b|\bps\s*plus\b`},
		{Name: "xbox game pass", Category: "gaming", Pattern: `\bxbox\s*game\s*pass\b|\bgame\s*pass\b`},
		{Name: "nintendo switch online", Category: "gaming", Pattern: `\bnintendo\s*(switch)?\s*online\b`},
		{Name: "twitch turbo", Category: "gaming", Pattern: `\btwitch\s*turbo\b`},

		// Productivity / software.
		{Name: "adobe creative cloud", Category: "productivity", Pattern: `\badobe(\s*creative\s*cloud|[\s-]*cc)\b`},
		{Name: "adobe photoshop", Category: "productivity", Pattern: `\bphotoshop\b`},
		{Name: "adobe illustrator", Category: "productivity", Pattern: `\billustrator\b`},
		{Name: "adobe acrobat", Category: "productivity", Pattern: `\bacrobat\b`},
		{Name: "microsoft 365", Category: "productivity", Pattern: `\bmicrosoft\s*365\b|\boffice\s*365\b|\bo365\b`},
		{Name: "notion", Category: "productivity", Pattern: `\bnotion\b`},
		{Name: "slack", Category: "productivity", Pattern: `\bslack\b`},
		{Name: "zoom", Category: "productivity", Pattern: `\bzoom\b`},
		{Name: "canva", Category: "productivity", Pattern: `\bcanva\b`},
		{Name: "figma", Category: "productivity", Pattern: `\bfigma\b`},
		{Name: "asana", Category: "productivity", Pattern: `\basana\b`},
		{Name: "monday.com", Category: "productivity", Pattern: `\bmonday(\.com)?\b`},
		{Name: "evernote", Category: "productivity", Pattern: `\bevernote\b`},
		{Name: "grammarly", Category: "productivity", Pattern: `\bgrammarly\b`},
		{Name: "dropbox", Category: "productivity", Pattern: `\bdropbox\b`},
		{Name: "box", Category: "productivity", Pattern: `\bbox(\.com)?\b`},
		{Name: "one drive", Category: "productivity", Pattern: `\bone\s*drive\b|\bonedrive\b`},

		// Cloud / dev / hosting.
		{Name: "github", Category: "developer", Pattern: `\bgithub\b`},
		{Name: "gitlab", Category: "developer", Pattern: `\bgitlab\b`},
		{Name: "bitbucket", Category: "developer", Pattern: `\bbitbucket\b`},
		{Name: "digitalocean", Category: "developer", Pattern: `\bdigital\s*ocean\b|\bdigitalocean\b`},
		{Name: "linode", Category: "developer", Pattern: `\blinode\b`},
		{Name: "heroku", Category: "developer", Pattern: `\bheroku\b`},
		{Name: "vercel", Category: "developer", Pattern: `\bvercel\b`},
		{Name: "netlify", Category: "developer", Pattern: `\bnetlify\b`},
		{Name: "render", Category: "developer", Pattern: `\brender\b`},
		{Name: "cloudflare", Category: "developer", Pattern: `\bcloudflare\b`},
		{Name: "aws", Category: "developer", Pattern: `\bamazon\s*web\s*services\b|\baws\b`},
		{Name: "gcp", Category: "developer", Pattern: `\bgoogle\s*cloud\b|\bgcp\b`},
		{Name: "azure", Category: "developer", Pattern: `\bazure\b`},

		// Storage / backup.
		{Name: "google one", Category: "cloud_storage", Pattern: `\bgoogle\s*(one|storage)\b`},
		{Name: "apple icloud", Category: "cloud_storage", Pattern: `\bapple\s*i\s*cloud\b|\bi\s*cloud\b|\bicloud\b`},
		{Name: "backblaze", Category: "cloud_storage", Pattern: `\bbackblaze\b`},
		{Name: "idrive", Category: "cloud_storage", Pattern: `\bidrive\b`},
		{Name: "mega", Category: "cloud_storage", Pattern: `\bmega(\.nz)?\b`},

		// Security / VPN / passwords.
		{Name: "1password", Category: "security", Pattern: `\b1\s*password\b|\b1password\b`},
		{Name: "lastpass", Category: "security", Pattern: `\blast\s*pass\b|\blastpass\b`},
		{Name: "dashlane", Category: "security", Pattern: `\bdashlane\b`},
		{Name: "malwarebytes", Category: "security", Pattern: `\bmalwarebytes\b`},
		{Name: "nordvpn", Category: "security", Pattern: `\bnord\s*vpn\b|\bnordvpn\b`},
		{Name: "expressvpn", Category: "security", Pattern: `\bexpress\s*vpn\b|\bexpressvpn\b`},
		{Name: "surfshark", Category: "security", Pattern: `\bsurfshark\b`},
		{Name: "proton vpn", Category: "security", Pattern: `\bproton\s*vpn\b`},

		// Education / learning.
		{Name: "coursera", Category: "education", Pattern: `\bcoursera\b`},
		{Name: "udemy", Category: "education", Pattern: `\budemy\b`},
		{Name: "skillshare", Category: "education", Pattern: `\bskill\s*share\b|\bskillshare\b`},
		{Name: "linkedin learning", Category: "education", Pattern: `\blinked(in)?\s*learning\b`},
		{Name: "duolingo plus", Category: "education", Pattern: `\bduolingo\s*plus\b`},
		{Name: "babbel", Category: "education", Pattern: `\bbabbel\b`},
		{Name: "brilliant", Category: "education", Pattern: `\bbrilliant\b`},
		{Name: "chegg", Category: "education", Pattern: `\bchegg\b`},

		// Fitness / health / wellness.
		{Name: "peloton", Category: "fitness", Pattern: `\bpeloton\b`},
		{Name: "fitbit premium", Category: "fitness", Pattern: `\bfitbit\s*premium\b`},
		{Name: "strava", Category: "fitness", Pattern: `\bstrava\b`},
		{Name: "myfitnesspal", Category: "fitness", Pattern: `\bmy\s*fitness\s*pal\b|\bmyfitnesspal\b`},
		{Name: "headspace", Category: "wellness", Pattern: `\bheadspace\b`},
		{Name: "calm", Category: "wellness", Pattern: `\bcalm\b`},

		// Finance / budgeting / bills.
		{Name: "ynab", Category: "finance", Pattern: `\byou\s*need\s*a\s*budget\b|\bynab\b`},
		{Name: "quickbooks", Category: "finance", Pattern: `\bquick\s*books\b|\bquickbooks\b`},
		{Name: "xero", Category: "finance", Pattern: `\bxero\b`},
		{Name: "mint", Category: "finance", Pattern: `\bmint\b`},
		{Name: "rocket money", Category: "finance", Pattern: `\brocket\s*money\b|\btruebill\b`},

		// Shopping / memberships.
		{Name: "amazon prime", Category: "shopping", Pattern: `\bamazon\s*prime\b|\bprime\s*membership\b`},
		{Name: "walmart+", Category: "shopping", Pattern: `\bwalmart\+|\bwalmart\s*plus\b`},
		{Name: "costco membership", Category: "shopping", Pattern: `\bcostco\b`},
		{Name: "sam's club", Category: "shopping", Pattern: `\bsam'?s\s*club\b`},

		// Mobility / transport.
		{Name: "uber one", Category: "mobility", Pattern: `\buber\s*one\b`},
		{Name: "lyft pink", Category: "mobility", Pattern: `\blyft\s*pink\b`},

		// Communication / email.
		{Name: "google workspace", Category: "communication", Pattern: `\bgoogle\s*workspace\b|\bg\s*suite\b`},
		{Name: "proton mail", Category: "communication", Pattern: `\bproton\s*mail\b`},
		{Name: "fastmail", Category: "communication", Pattern: `\bfastmail\b`},
		{Name: "zoom pro", Category: "communication", Pattern: `\bzoom\s*pro\b`},

		// AI / creative.
		{Name: "chatgpt plus", Category: "ai", Pattern: `\bchatgpt\s*plus\b|\bopenai\b`},
		{Name: "claude pro", Category: "ai", Pattern: `\bclaude\s*pro\b|\banthropic\b`},
		{Name: "midjourney", Category: "ai", Pattern: `\bmid\s*journey\b|\bmidjourney\b`},
		{Name: "github copilot", Category: "ai", Pattern: `\bgithub\s*copilot\b`},
		{Name: "jasper ai", Category: "ai", Pattern: `\bjasper(\s*ai)?\b`},
		{Name: "microsoft copilot", Category: "ai", Pattern: `\bmicrosoft\s*copilot\b`},
	}
}

// MustDefaultResolver builds a resolver over DefaultRules. The default
// lexicon is compiled in tests, so a panic here means a broken rule was
// committed.
func MustDefaultResolver() *Resolver {
	r, err := NewResolver(DefaultRules())
	if err != nil {
		panic(err)
	}
	return r
}
