package colorme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	msgInvalidHex    = "Color must be a valid hex code."
	msgProtected     = "You have a role that prevents you from changing your color."
	msgColorSet      = "Your new color is set."
	msgNoColorRole   = "You don't have a color role."
	msgColorRemoved  = "Your color role has been removed."
	msgNothingPurged = "I couldn't find any roles to purge."
	msgNeedsManage   = "You need the Manage Roles permission to do that."
	purgeTimeout     = 60 * time.Second
	purgeSpacing     = time.Second
	memberPageSize   = 1000
)

func (f *Feature) handleChange(s *discordgo.Session, i *discordgo.InteractionCreate, hex string) error {
	if i.Member == nil || i.Member.User == nil {
		return common.NewUserError("This command only works in a server.", "colorme outside guild")
	}
	if ok, wait := f.cooldown.Allow(i.Member.User.ID, time.Now()); !ok {
		return common.NewUserError(
			fmt.Sprintf("This command is on cooldown. Try again in %s.", common.FormatDuration(wait.Round(time.Second))),
			"colorme cooldown",
		)
	}
	color, ok := ParseHex(hex)
	if !ok {
		return common.NewUserError(msgInvalidHex, "Invalid colorme hex")
	}

	roles, err := f.guildRoles(s, i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to load guild roles")
	}
	if top := TopRole(i.Member.Roles, roles); top != nil {
		protected, err := f.isProtected(i.GuildID, top.ID)
		if err != nil {
			return common.NewSystemError(err, "Failed to check protected roles")
		}
		if protected {
			return common.NewUserError(msgProtected, "Protected role")
		}
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		return nil
	}
	if err := f.applyColor(s, i.GuildID, i.Member, roles, color); err != nil {
		common.HandleError(s, i, err, true)
		return nil
	}
	_, err = common.FollowUp(s, i, msgColorSet, false)
	return err
}

// applyColor edits the member's own color role, or creates one just above
// their top role when they have none or share it
func (f *Feature) applyColor(s *discordgo.Session, guildID string, member *discordgo.Member, roles []*discordgo.Role, color int) error {
	userID := member.User.ID
	logger := log.WithFields(log.Fields{"guild_id": guildID, "user_id": userID})

	if existing := ColorRole(member.Roles, roles); existing != nil {
		members, err := guildMembers(s, guildID)
		if err != nil {
			return common.NewSystemError(err, "Failed to list guild members")
		}
		if !IsShared(existing.ID, userID, members) {
			if _, err := s.GuildRoleEdit(guildID, existing.ID, &discordgo.RoleParams{Color: &color}); err != nil {
				return common.NewPublicUserError("Failed to edit role. (permissions)", err.Error())
			}
			logger.WithField("role_id", existing.ID).Info("Updated colorme role")
			return nil
		}
		if err := s.GuildMemberRoleRemove(guildID, userID, existing.ID); err != nil {
			return common.NewPublicUserError("Failed to remove your shared color role. (permissions)", err.Error())
		}
	}

	hoist, mentionable := false, false
	var noPerms int64
	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        RoleName(member.User),
		Color:       &color,
		Hoist:       &hoist,
		Mentionable: &mentionable,
		Permissions: &noPerms,
	})
	if err != nil {
		return common.NewPublicUserError("Failed to create new role. (permissions)", err.Error())
	}

	if top := TopRole(member.Roles, roles); top != nil {
		role.Position = top.Position + 1
		if _, err := s.GuildRoleReorder(guildID, []*discordgo.Role{role}); err != nil {
			logger.WithError(err).Warn("Failed to move colorme role")
		}
	}

	if err := s.GuildMemberRoleAdd(guildID, userID, role.ID); err != nil {
		return common.NewPublicUserError("Failed to apply new role. (permissions)", err.Error())
	}
	logger.WithField("role_id", role.ID).Info("Created colorme role")
	return nil
}

func (f *Feature) handleClean(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Member == nil || i.Member.User == nil {
		return common.NewUserError("This command only works in a server.", "colorme outside guild")
	}
	roles, err := f.guildRoles(s, i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to load guild roles")
	}
	existing := ColorRole(i.Member.Roles, roles)
	if existing == nil {
		return common.NewUserError(msgNoColorRole, "No colorme role")
	}

	members, err := guildMembers(s, i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to list guild members")
	}
	if IsShared(existing.ID, i.Member.User.ID, members) {
		err = s.GuildMemberRoleRemove(i.GuildID, i.Member.User.ID, existing.ID)
	} else {
		err = s.GuildRoleDelete(i.GuildID, existing.ID)
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to remove colorme role")
	}
	return common.Respond(s, i, msgColorRemoved, true)
}

func (f *Feature) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !common.MemberHasPermission(i, discordgo.PermissionManageRoles) {
		return common.NewUserError(msgNeedsManage, "colorme purge denied")
	}
	roles, err := f.guildRoles(s, i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to load guild roles")
	}
	members, err := guildMembers(s, i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to list guild members")
	}

	dead := DeadRoles(roles, members)
	if len(dead) == 0 {
		return common.Respond(s, i, msgNothingPurged, false)
	}

	guildID := i.GuildID
	return f.interactive.Confirm(s, i, PurgeQuestion(dead), purgeTimeout, func(s *discordgo.Session, ci *discordgo.InteractionCreate, yes bool) {
		if !yes {
			common.UpdateComponentMessage(s, ci, "Alright, I'm not deleting any roles.")
			return
		}
		common.UpdateComponentMessage(s, ci, "Deleting roles...")

		var failed []string
		for idx, role := range dead {
			if idx > 0 {
				time.Sleep(purgeSpacing)
			}
			if err := s.GuildRoleDelete(guildID, role.ID); err != nil {
				log.WithError(err).WithFields(log.Fields{"guild_id": guildID, "role_id": role.ID}).Warn("Failed to delete colorme role")
				failed = append(failed, role.Name)
			}
		}

		msg := "Finished deleting roles!"
		if len(failed) > 0 {
			msg += "\nFailed to delete: " + strings.Join(failed, ", ")
		}
		if _, err := common.SendChannelMessage(s, ci.ChannelID, msg); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Warn("Failed to report colorme purge")
		}
	})
}

// PurgeQuestion lists the roles a purge would delete
func PurgeQuestion(dead []*discordgo.Role) string {
	names := make([]string, len(dead))
	for idx, r := range dead {
		names[idx] = r.Name
	}
	question := "I found these color roles that no member has. " +
		"Would you like me to delete them? This action is not reversible.\n"
	return common.Truncate(question+common.CodeBlock("", strings.Join(names, "\n")), common.MaxMessageLength)
}

func (f *Feature) handleProtect(s *discordgo.Session, i *discordgo.InteractionCreate, roleIDStr string, protect bool) error {
	if !common.MemberHasPermission(i, discordgo.PermissionManageRoles) {
		return common.NewUserError(msgNeedsManage, "colorme protect denied")
	}
	roleID, err := common.ParseID(roleIDStr)
	if err != nil {
		return common.NewUserError("No roles match that name.", "Invalid role ID")
	}
	name := f.roleName(s, i.GuildID, roleIDStr)

	err = f.withModeration(i.GuildID, func(ctx context.Context, uow application.UnitOfWork) error {
		svc := services.NewModerationService(uow.ModerationRepository())
		if protect {
			return svc.ProtectRole(ctx, roleID)
		}
		return svc.UnprotectRole(ctx, roleID)
	})
	switch {
	case errors.Is(err, entities.ErrRoleAlreadyProtected):
		return common.NewUserError("That role is already protected.", "Role already protected")
	case errors.Is(err, entities.ErrRoleNotProtected):
		return common.NewUserError("That role is not currently protected.", "Role not protected")
	case err != nil:
		return common.NewSystemError(err, "Failed to update protected roles")
	}

	if protect {
		return common.Respond(s, i, fmt.Sprintf("Users with top role '%s' are protected from color changes.", name), false)
	}
	return common.Respond(s, i, fmt.Sprintf("Users with top role '%s' are no longer protected from color changes.", name), false)
}

func (f *Feature) handleListProtect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var ids []int64
	err := f.withModeration(i.GuildID, func(ctx context.Context, uow application.UnitOfWork) error {
		var err error
		ids, err = services.NewModerationService(uow.ModerationRepository()).GetProtectedRoles(ctx)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to list protected roles")
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, f.roleName(s, i.GuildID, common.FormatID(id)))
	}
	return common.Respond(s, i, FormatProtected(names), false)
}

// FormatProtected lists protected role names
func FormatProtected(names []string) string {
	if len(names) == 0 {
		return "No roles are protected."
	}
	quoted := make([]string, len(names))
	for idx, n := range names {
		quoted[idx] = "'" + n + "'"
	}
	return "Protected role(s): " + strings.Join(quoted, ", ") + "."
}

func (f *Feature) handleDefaultRole(s *discordgo.Session, i *discordgo.InteractionCreate, roleIDStr string) error {
	if !common.MemberHasPermission(i, discordgo.PermissionManageRoles) {
		return common.NewUserError(msgNeedsManage, "colorme defaultrole denied")
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	var roleID *int64
	if roleIDStr != "" && roleIDStr != i.GuildID {
		id, err := common.ParseID(roleIDStr)
		if err != nil {
			return common.NewUserError("No roles match that name.", "Invalid role ID")
		}
		roleID = &id
	}

	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return services.NewGuildSettingsService(uow.GuildSettingsRepository()).SetDefaultRole(context.Background(), guildID, roleID)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to set default role")
	}

	if roleID == nil {
		return common.Respond(s, i, "New members will no longer be given a role.", false)
	}
	return common.Respond(s, i, fmt.Sprintf("Role '%s' will be applied to each user who joins the server.", f.roleName(s, i.GuildID, roleIDStr)), false)
}

// HandleGuildMemberAdd grants the guild's default role to new members
func (f *Feature) HandleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil || m.User.Bot {
		return
	}
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}

	var settings *entities.GuildSettings
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		settings, err = services.NewGuildSettingsService(uow.GuildSettingsRepository()).GetOrCreateSettings(context.Background(), guildID)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to load guild settings for new member")
		return
	}
	if !settings.HasDefaultRole() {
		return
	}

	roleID := common.FormatID(*settings.DefaultRoleID)
	if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, roleID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": m.GuildID,
			"user_id":  m.User.ID,
			"role_id":  roleID,
		}).Warn("Failed to apply default role")
		return
	}
	log.WithFields(log.Fields{"guild_id": m.GuildID, "user_id": m.User.ID}).Debug("Applied default role")
}

func (f *Feature) isProtected(guildIDStr, roleIDStr string) (bool, error) {
	roleID, err := common.ParseID(roleIDStr)
	if err != nil {
		return false, err
	}
	var protected bool
	err = f.withModeration(guildIDStr, func(ctx context.Context, uow application.UnitOfWork) error {
		var err error
		protected, err = services.NewModerationService(uow.ModerationRepository()).IsProtected(ctx, roleID)
		return err
	})
	return protected, err
}

func (f *Feature) withModeration(guildIDStr string, fn func(context.Context, application.UnitOfWork) error) error {
	guildID, err := common.ParseID(guildIDStr)
	if err != nil {
		return fmt.Errorf("invalid guild ID %q: %w", guildIDStr, err)
	}
	ctx := context.Background()
	return application.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return fn(ctx, uow)
	})
}

func (f *Feature) guildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return s.GuildRoles(guildID)
}

func (f *Feature) roleName(s *discordgo.Session, guildID, roleID string) string {
	if role, err := s.State.Role(guildID, roleID); err == nil {
		return role.Name
	}
	return roleID
}

// guildMembers lists every member, paging through the API
func guildMembers(s *discordgo.Session, guildID string) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := s.GuildMembers(guildID, after, memberPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of guild %s: %w", guildID, err)
		}
		all = append(all, page...)
		if len(page) < memberPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}
