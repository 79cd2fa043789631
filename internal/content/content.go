// Package content holds the static copy of every portfolio section.
package content

// Profile is the owner's identity, shown on About and Dashboard.
type Profile struct {
	Name      string
	Role      string
	Bio       string
	Location  string
	Email     string
	Phones    []string
	GitHub    string
	LinkedIn  string
	MapLink   string
	ResumeURL string
}

// GitHubURL is the owner's profile page.
func (p Profile) GitHubURL() string { return "https://github.com/" + p.GitHub }

// LinkedInURL is the owner's LinkedIn page.
func (p Profile) LinkedInURL() string { return "https://linkedin.com/in/" + p.LinkedIn }

// AvatarURL is served by GitHub for any user.
func (p Profile) AvatarURL() string { return "https://github.com/" + p.GitHub + ".png" }

var Owner = Profile{
	Name:      "Tuyizere Ibrahim",
	Role:      "Full Stack Developer",
	Bio:       "Passionate developer focused on creating efficient and user-friendly applications",
	Location:  "Kigali, Rwanda (Kicukiro, Gatenga, KK595st)",
	Email:     "ibrahimtuyizere2@gmail.com",
	Phones:    []string{"+250 798893468", "+250 725931245"},
	GitHub:    "Tibrahi",
	LinkedIn:  "tuyizere-ibrahim-89ba8b275",
	MapLink:   "https://www.google.com/maps/search/?api=1&query=Kicukiro+Gatenga+KK595st+Kigali+Rwanda",
	ResumeURL: "/static/Tuyizere_Ibrahim_Resume.pdf",
}

// Card is a titled blurb with an emoji marker.
type Card struct {
	Title string
	Text  string
	Icon  string
}

var Facts = []Card{
	{Title: "Education", Text: "Certified Software Developer", Icon: "🎓"},
	{Title: "Location", Text: "Gatenga, Kicukiro, Kigali, Rwanda, Africa", Icon: "🌍"},
	{Title: "Languages", Text: "English, Kinyarwanda, Swahili", Icon: "💬"},
}

var Achievements = []Card{
	{Title: "Founder of Code4Impact Rwanda", Text: "Leading a community of developers focused on creating social impact through technology", Icon: "🏆"},
	{Title: "Tech Community Leader", Text: "Organizing workshops and mentoring sessions for aspiring developers", Icon: "👥"},
	{Title: "Open Source Contributor", Text: "Active contributor to various open-source projects", Icon: "🌟"},
}

// JobKind separates paid roles from training.
type JobKind string

const (
	Professional JobKind = "Professional"
	Training     JobKind = "Education/Field"
)

// Job is one entry of the experience timeline.
type Job struct {
	Title        string
	Company      string
	Duration     string
	Location     string
	Description  string
	Technologies []string
	Kind         JobKind
}

// IsProfessional is used by templates to pick the timeline color.
func (j Job) IsProfessional() bool { return j.Kind == Professional }

var Experience = []Job{
	{
		Title:        "Senior Frontend Developer || Web Design Specialist",
		Company:      "IGITREE",
		Duration:     "July 2024 - Present",
		Location:     "Nyarugenge District, Kigali City, Rwanda",
		Description:  "Led the design and development of high-impact, user-centered digital solutions for the health and human services sector. Built intuitive, accessible and scalable user interfaces with cross-functional teams, turning complex requirements into clean web products.",
		Technologies: []string{"React/Modern JS", "UX Design", "Optimized Frontend Architecture", "Responsive/Accessible UI", "Analytics"},
		Kind:         Professional,
	},
	{
		Title:        "Computer Technician",
		Company:      "Technology Channel (Training Company)",
		Duration:     "July 2024 - September 2024",
		Location:     "Nepal",
		Description:  "Comprehensive training in software applications, hardware basics and troubleshooting, with a focus on adapting quickly to new technologies.",
		Technologies: []string{"Computer Literacy", "Hardware Basics", "Software Training", "Troubleshooting", "Adaptability"},
		Kind:         Training,
	},
	{
		Title:        "Technical Assistant",
		Company:      "Elco.ltd",
		Duration:     "August 2023 - August 2024",
		Location:     "Kicukiro District, Kigali City, Rwanda",
		Description:  "Repaired and replaced computer and printer components, diagnosed faults, handled software installation and updates, and looked after basic network configuration.",
		Technologies: []string{"Hardware Troubleshooting", "Software Installation/Configuration", "Network Basics", "IT Support", "Problem-Solving"},
		Kind:         Professional,
	},
	{
		Title:        "Robotics Developer",
		Company:      "Boeing (ThinkYoung & Boeing Coding School)",
		Duration:     "April 2023 - April 2024",
		Location:     "Kimihurura, Kigali City, Rwanda",
		Description:  "Hands-on robotics, automation and drone systems: robot programming, sensor data, flight control, navigation algorithms and motor coordination.",
		Technologies: []string{"Robotics Programming", "Drone Technology", "Automation", "Flight Control", "System Integration"},
		Kind:         Training,
	},
	{
		Title:        "Software Developer",
		Company:      "ThinkYoung (Coding Class)",
		Duration:     "April 2023",
		Location:     "Kimihurura, Kigali City, Rwanda",
		Description:  "Intensive program coding with JavaScript, Python, HTML/CSS, PictoBlox and Arduino, ending with a working robotic car built around sensors and automation logic.",
		Technologies: []string{"JavaScript", "Python", "HTML/CSS", "Arduino", "Robotic Car Design", "System Integration"},
		Kind:         Training,
	},
	{
		Title:        "Full-stack Developer",
		Company:      "NATCOM SERVICES RWANDA",
		Duration:     "Mar 2022 - Mar 2025",
		Location:     "Kimihurura, Kigali City, Rwanda · Hybrid",
		Description:  "Built UIs, server-side logic and databases and deployed websites. The internship ended with MEMO (Memorize), a complete system certified by Natcom.",
		Technologies: []string{"Front-End Development", "Back-End Web Development", "Web Design", "Web Hosting"},
		Kind:         Professional,
	},
}

// Level is a self-assessed proficiency.
type Level string

const (
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
	Expert       Level = "Expert"
)

type Skill struct {
	Name  string
	Years string
	Level Level
}

type SkillCategory struct {
	Title  string
	Skills []Skill
}

var Skills = []SkillCategory{
	{Title: "Frontend", Skills: []Skill{
		{Name: "HTML5", Years: "4+ Years", Level: Expert},
		{Name: "CSS3 / Tailwind", Years: "4+ Years", Level: Expert},
		{Name: "JavaScript (ES6+)", Years: "3+ Years", Level: Advanced},
		{Name: "TypeScript", Years: "1+ Years", Level: Intermediate},
	}},
	{Title: "Backend", Skills: []Skill{
		{Name: "Node.js", Years: "3 Years", Level: Advanced},
		{Name: "Python", Years: "2 Years", Level: Intermediate},
		{Name: "PHP", Years: "2 Years", Level: Intermediate},
	}},
	{Title: "Databases", Skills: []Skill{
		{Name: "MySQL", Years: "3 Years", Level: Advanced},
		{Name: "MongoDB", Years: "2 Years", Level: Intermediate},
		{Name: "Firebase", Years: "1 Year", Level: Intermediate},
	}},
	{Title: "Frameworks", Skills: []Skill{
		{Name: "React.js", Years: "3 Years", Level: Advanced},
		{Name: "Express.js", Years: "3 Years", Level: Advanced},
		{Name: "Laravel", Years: "1 Year", Level: Intermediate},
	}},
	{Title: "Tools", Skills: []Skill{
		{Name: "Git & GitHub", Years: "4 Years", Level: Expert},
		{Name: "Vercel/Render", Years: "2 Years", Level: Intermediate},
		{Name: "Figma", Years: "2 Years", Level: Intermediate},
	}},
}

// Status is the build state of a showcased project or design.
type Status string

const (
	Completed         Status = "completed"
	InProgress        Status = "in-progress"
	UnderConstruction Status = "under-construction"
)

// Label is the badge text.
func (s Status) Label() string {
	switch s {
	case Completed:
		return "Completed"
	case InProgress:
		return "In Progress"
	case UnderConstruction:
		return "Under Construction"
	}
	return "Unknown"
}

// Showcase is a hand-picked project with a live demo.
type Showcase struct {
	Title        string
	Description  string
	Technologies []string
	Link         string
	Source       string
	Screenshot   string
	Status       Status
}

var Featured = []Showcase{
	{
		Title:        "CineVault",
		Description:  "A web-based movie discovery and streaming info platform that lets users explore popular, trending, and top-rated movies and TV shows.",
		Technologies: []string{"React", "TailwindCSS", "VanillaJs"},
		Link:         "https://cine-vault-two.vercel.app/",
		Source:       "https://github.com/Tibrahi/CineVault",
		Screenshot:   "https://cine-vault-two.vercel.app/",
		Status:       UnderConstruction,
	},
	{
		Title:        "RocketGame",
		Description:  "An interactive space-themed game where players control a rocket through various challenges and obstacles in space.",
		Technologies: []string{"JavaScript", "HTML5", "CSS3"},
		Link:         "https://rocket-game-opal.vercel.app/",
		Source:       "https://github.com/Tibrahi/RocketGame",
		Screenshot:   "https://rocket-game-opal.vercel.app/",
		Status:       Completed,
	},
	{
		Title:        "Elearning Platform Based Memorize",
		Description:  "Memorize is a minimalist e-learning platform where users strengthen their coding memory by writing code from scratch.",
		Technologies: []string{"React", "Emailjs"},
		Link:         "https://elearning-taupe.vercel.app/",
		Source:       "https://github.com/Tibrahi/Elearning",
		Screenshot:   "https://elearning-taupe.vercel.app/api/og",
		Status:       Completed,
	},
	{
		Title:        "Txlogic",
		Description:  "Txlogic is a web-based cargo tracking system that logs, monitors, and updates cargo movement across logistics channels in real time.",
		Technologies: []string{"React", "Typescript", "Node.js", "Firebase", "Emailjs"},
		Link:         "https://txlogic.vercel.app/",
		Source:       "https://github.com/Tibrahi/Txlogic",
		Screenshot:   "https://txlogic.vercel.app/",
		Status:       UnderConstruction,
	},
}

// Design is a Figma file shown on the Design section. The embed is loaded on demand.
type Design struct {
	Title       string
	Description string
	Category    string
	FigmaLink   string
	EmbedLink   string
	Status      Status
}

var Designs = []Design{
	{
		Title:       "Maidlink",
		Description: "Service connection platform connecting households with professional help.",
		Category:    "Web Design",
		FigmaLink:   "https://www.figma.com/design/rWGDaOqDxj0WoEbdqF5hmJ/Maidlink",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FrWGDaOqDxj0WoEbdqF5hmJ%2FMaidlink",
		Status:      Completed,
	},
	{
		Title:       "Igitree",
		Description: "Digital platform focused on growth and environmental tracking.",
		Category:    "Web Design",
		FigmaLink:   "https://www.figma.com/design/bV180n1Sd2axqkJrnEEjss/igitree",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FbV180n1Sd2axqkJrnEEjss%2Figitree",
		Status:      Completed,
	},
	{
		Title:       "Umudugudu Connect",
		Description: "Community engagement platform for local connectivity and updates.",
		Category:    "Web Design",
		FigmaLink:   "https://www.figma.com/design/PvRrhuUZes6sjsAjb5TY4A/Umudugu-connect",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FPvRrhuUZes6sjsAjb5TY4A%2FUmudugu-connect",
		Status:      InProgress,
	},
	{
		Title:       "Sawapay",
		Description: "Fintech mobile application design for seamless payments and transfers.",
		Category:    "Mobile Design",
		FigmaLink:   "https://www.figma.com/design/qkwCvVuhl0j0qBLEakwBNO/Sawapay_Design",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FqkwCvVuhl0j0qBLEakwBNO%2FSawapay_Design",
		Status:      Completed,
	},
	{
		Title:       "We Donate",
		Description: "Charity and volunteering platform connecting donors with causes.",
		Category:    "Web Design",
		FigmaLink:   "https://www.figma.com/design/Cf3gkh0KAAUqNFsUywKiqw/WeDonateTime",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FCf3gkh0KAAUqNFsUywKiqw%2FWeDonateTime",
		Status:      UnderConstruction,
	},
	{
		Title:       "Equalynk",
		Description: "Social impact platform promoting equality and resource sharing.",
		Category:    "Mobile Design",
		FigmaLink:   "https://www.figma.com/design/aHnKAbZc4SQIujxoE7w9jM/Equalynk",
		EmbedLink:   "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FaHnKAbZc4SQIujxoE7w9jM%2FEqualynk",
		Status:      Completed,
	},
}

// Tally counts entries per status. Under construction counts as in progress.
type Tally struct {
	Total      int
	Completed  int
	InProgress int
}

func tally(statuses []Status) Tally {
	t := Tally{Total: len(statuses)}
	for _, s := range statuses {
		switch s {
		case Completed:
			t.Completed++
		case InProgress, UnderConstruction:
			t.InProgress++
		}
	}
	return t
}

// FeaturedTally summarises Featured.
func FeaturedTally() Tally {
	s := make([]Status, len(Featured))
	for i, p := range Featured {
		s[i] = p.Status
	}
	return tally(s)
}

// DesignTally summarises Designs.
func DesignTally() Tally {
	s := make([]Status, len(Designs))
	for i, d := range Designs {
		s[i] = d.Status
	}
	return tally(s)
}
