package feed

// Atom feed as served by youtube.com/feeds/videos.xml. Atom elements are
// namespace qualified so media:title never lands in Title. Media elements
// are matched by local name so both the media:group layout and feeds that
// put them directly on the entry decode.
type atomFeed struct {
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	Title     string     `xml:"http://www.w3.org/2005/Atom title"`
	Links     []atomLink `xml:"http://www.w3.org/2005/Atom link"`
	Published string     `xml:"http://www.w3.org/2005/Atom published"`

	Group atomMedia `xml:"group"`

	// Same elements without the media:group wrapper.
	atomMedia
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomMedia struct {
	Description *string        `xml:"description"`
	Thumbnail   *atomThumbnail `xml:"thumbnail"`
	Community   *atomCommunity `xml:"community"`
}

type atomThumbnail struct {
	URL string `xml:"url,attr"`
}

type atomCommunity struct {
	Statistics *struct {
		Views string `xml:"views,attr"`
	} `xml:"statistics"`
	StarRating *struct {
		Average string `xml:"average,attr"`
	} `xml:"starRating"`
}
