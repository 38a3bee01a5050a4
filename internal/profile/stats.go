package profile

// Aggregate reduces a listing snapshot into profile statistics. Pending
// listings count toward neither active nor sold; negative counters are read
// as zero.
func Aggregate(listings []ListingSummary) Stats {
	var s Stats
	for _, l := range listings {
		switch l.Status {
		case ListingActive:
			s.ActiveListings++
		case ListingSold:
			s.SoldListings++
		}
		s.TotalViews += max(l.ViewCount, 0)
		s.TotalFavorites += max(l.FavoriteCount, 0)
	}
	return s
}
