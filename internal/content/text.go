package content

var (
	Greeting = `Hello I'M TUYIZERE IBRAHIM`

	Tagline = `I'm a passionate full-stack developer dedicated to creating impactful solutions through technology.`

	AboutMe = `I'm a full-stack developer with a passion for creating innovative solutions.
	With expertise in modern web technologies and a strong foundation in software development,
	I strive to build applications that make a difference.`

	ProjectsIntro = `A few things I have shipped or am still building. Live deployments and the
	rest of my public repositories are listed below, straight from GitHub.`

	DesignIntro = `Interface and product design work, mostly done in Figma before a line of code is written.`

	ContactIntro = `Have a project in mind or just want to say hello? Send me a message below.`
)
