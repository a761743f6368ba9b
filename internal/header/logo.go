package header

const (
	LogoDarkAsset   = "/static/logo-dark.svg"
	LogoBrightAsset = "/static/logo-bright.svg"

	// LogoReturn is where the logo form lands after it closes the
	// categories menu.
	LogoReturn = "/"
)

type Logo struct {
	Asset string
	Alt   string
	// Action is posted by the logo form.
	Action Action
	Return string
}

func SelectLogo(c LogoColor) Logo {
	l := Logo{Asset: LogoDarkAsset, Alt: "The Reporter", Action: CloseCategories, Return: LogoReturn}
	if c == LogoBright {
		l.Asset = LogoBrightAsset
	}
	return l
}
