package model

// ContributionKind is a PAV ontology contribution type.
type ContributionKind string

const (
	AuthoredBy       ContributionKind = "authoredBy"
	ContributedBy    ContributionKind = "contributedBy"
	CreatedAt        ContributionKind = "createdAt"
	CreatedBy        ContributionKind = "createdBy"
	CreatedWith      ContributionKind = "createdWith"
	CuratedBy        ContributionKind = "curatedBy"
	DerivedFrom      ContributionKind = "derivedFrom"
	ImportedBy       ContributionKind = "importedBy"
	ImportedFrom     ContributionKind = "importedFrom"
	ProvidedBy       ContributionKind = "providedBy"
	RetrievedBy      ContributionKind = "retrievedBy"
	RetrievedFrom    ContributionKind = "retrievedFrom"
	SourceAccessedBy ContributionKind = "sourceAccessedBy"
)

// ContributionKinds lists every contribution kind in contract order.
var ContributionKinds = []ContributionKind{
	AuthoredBy, ContributedBy, CreatedAt, CreatedBy, CreatedWith, CuratedBy, DerivedFrom,
	ImportedBy, ImportedFrom, ProvidedBy, RetrievedBy, RetrievedFrom, SourceAccessedBy,
}

// String returns the wire form.
func (k ContributionKind) String() string { return string(k) }

// Valid reports whether k is one of the thirteen contribution kinds.
func (k ContributionKind) Valid() bool {
	for _, c := range ContributionKinds {
		if c == k {
			return true
		}
	}
	return false
}

// ParseContributionKind maps a wire string to a ContributionKind.
func ParseContributionKind(s string) (ContributionKind, bool) {
	k := ContributionKind(s)
	return k, k.Valid()
}

// ReviewStatus is the verification state of a review entry.
type ReviewStatus string

const (
	StatusUnreviewed ReviewStatus = "unreviewed"
	StatusInReview   ReviewStatus = "in-review"
	StatusApproved   ReviewStatus = "approved"
	StatusRejected   ReviewStatus = "rejected"
	StatusSuspended  ReviewStatus = "suspended"
)

// ReviewStatuses lists every review status in contract order.
var ReviewStatuses = []ReviewStatus{StatusUnreviewed, StatusInReview, StatusApproved, StatusRejected, StatusSuspended}

// String returns the wire form.
func (s ReviewStatus) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s ReviewStatus) Valid() bool {
	for _, v := range ReviewStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseReviewStatus maps a wire string to a ReviewStatus.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	v := ReviewStatus(s)
	return v, v.Valid()
}
